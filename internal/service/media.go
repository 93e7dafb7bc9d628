package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/iliyamo/portfolio-backend/internal/config"
	"github.com/iliyamo/portfolio-backend/internal/model"
)

// Uploader stores binary attachments remotely and returns their reference.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, folder string) (model.Media, error)
	Delete(ctx context.Context, id string) error
}

// UploadError wraps any failure talking to the media host.  Handlers map it
// to 502 and never write the owning entity.
type UploadError struct {
	Op  string
	Err error
}

func (e *UploadError) Error() string { return "media " + e.Op + ": " + e.Err.Error() }
func (e *UploadError) Unwrap() error { return e.Err }

// CloudinaryUploader is the production Uploader.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	prefix string
}

// NewCloudinaryUploader builds an uploader from credentials.
func NewCloudinaryUploader(cfg config.CloudinaryConfig) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &CloudinaryUploader{cld: cld, prefix: cfg.FolderPrefix}, nil
}

func (u *CloudinaryUploader) folder(label string) string {
	if u.prefix == "" {
		return label
	}
	return path.Join(u.prefix, label)
}

func (u *CloudinaryUploader) Upload(ctx context.Context, r io.Reader, folder string) (model.Media, error) {
	resp, err := u.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       u.folder(folder),
		ResourceType: "auto",
	})
	if err != nil {
		return model.Media{}, &UploadError{Op: "upload", Err: err}
	}
	if resp.Error.Message != "" {
		return model.Media{}, &UploadError{Op: "upload", Err: errors.New(resp.Error.Message)}
	}
	return model.Media{ID: resp.PublicID, URL: resp.SecureURL}, nil
}

func (u *CloudinaryUploader) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	resp, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id})
	if err != nil {
		return &UploadError{Op: "delete", Err: err}
	}
	if resp.Error.Message != "" {
		return &UploadError{Op: "delete", Err: errors.New(resp.Error.Message)}
	}
	return nil
}
