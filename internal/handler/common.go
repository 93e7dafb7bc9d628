package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/portfolio-backend/internal/logger"
	"github.com/iliyamo/portfolio-backend/internal/model"
	"github.com/iliyamo/portfolio-backend/internal/repository"
	"github.com/iliyamo/portfolio-backend/internal/service"
	"github.com/iliyamo/portfolio-backend/internal/validator"
)

const (
	storeTimeout  = 5 * time.Second
	uploadTimeout = 60 * time.Second
)

// CacheInvalidator drops cached public responses after a write.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// respondError maps domain errors to status codes.  Anything unrecognised is
// logged and reported as a generic 500.
func respondError(c echo.Context, err error) error {
	var verr *validator.Error
	var uerr *service.UploadError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Message})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	case errors.Is(err, service.ErrWrongPassword):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "old password is incorrect"})
	case errors.Is(err, service.ErrInvalidResetToken):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": service.ErrInvalidResetToken.Error()})
	case errors.As(err, &uerr):
		logger.Log.WithError(err).Error("media host failure")
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "media upload failed"})
	case errors.Is(err, service.ErrMailDelivery):
		logger.Log.WithError(err).Error("mail delivery failure")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not send email"})
	default:
		logger.Log.WithFields(logrus.Fields{
			"method": c.Request().Method,
			"path":   c.Path(),
		}).WithError(err).Error("request failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
}

func bindError(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
}

func withTimeout(c echo.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), d)
}

// optional returns a pointer to the trimmed value, or nil when it is blank.
// Blank fields in an update leave the stored value alone.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// splitTags accepts both repeated fields and comma separated values.
func splitTags(in []string) []string {
	var out []string
	for _, v := range in {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// optBool is a boolean that remembers whether it was sent.  It binds from
// JSON and from form values.
type optBool struct {
	Set   bool
	Value bool
}

func (b *optBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	return b.UnmarshalParam(s)
}

func (b *optBool) UnmarshalParam(param string) error {
	v, err := strconv.ParseBool(strings.TrimSpace(param))
	if err != nil {
		return err
	}
	b.Set, b.Value = true, v
	return nil
}

func (b optBool) ptr() *bool {
	if !b.Set {
		return nil
	}
	v := b.Value
	return &v
}

// Uploads carries the upload collaborator and the per-file size limit.
type Uploads struct {
	Store    service.Uploader
	MaxBytes int64
}

// file returns the named multipart file, or nil when the request has none.
func (m Uploads) file(c echo.Context, field string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, validator.Fail(field, "Could not read %s upload", field)
	}
	if m.MaxBytes > 0 && fh.Size > m.MaxBytes {
		return nil, validator.Fail(field, "%s exceeds the %d byte upload limit", field, m.MaxBytes)
	}
	return fh, nil
}

// upload sends fh to the media host under folder.
func (m Uploads) upload(ctx context.Context, fh *multipart.FileHeader, folder string) (model.Media, error) {
	f, err := fh.Open()
	if err != nil {
		return model.Media{}, &service.UploadError{Op: "open", Err: err}
	}
	defer f.Close()
	return m.Store.Upload(ctx, f, folder)
}

// discard deletes assets that are no longer referenced.  Failures only leak
// storage, so they are logged and not returned.
func (m Uploads) discard(ctx context.Context, assets ...model.Media) {
	for _, a := range assets {
		if a.ID == "" {
			continue
		}
		if err := m.Store.Delete(context.WithoutCancel(ctx), a.ID); err != nil {
			logger.Log.WithFields(logrus.Fields{"public_id": a.ID}).WithError(err).Warn("media delete failed")
		}
	}
}
