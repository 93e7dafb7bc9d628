package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/portfolio-backend/internal/model"
	"github.com/iliyamo/portfolio-backend/internal/repository"
	"github.com/iliyamo/portfolio-backend/internal/validator"
)

type SoftwareApplicationHandler struct {
	Apps    repository.SoftwareApplicationRepository
	Uploads Uploads
}

func NewSoftwareApplicationHandler(apps repository.SoftwareApplicationRepository, uploads Uploads) *SoftwareApplicationHandler {
	return &SoftwareApplicationHandler{Apps: apps, Uploads: uploads}
}

type softwareApplicationReq struct {
	Name string `json:"name" form:"name"`
}

func (h *SoftwareApplicationHandler) Add(c echo.Context) error {
	var req softwareApplicationReq
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	a := &model.SoftwareApplication{Name: strings.TrimSpace(req.Name)}
	if err := c.Validate(a); err != nil {
		return respondError(c, err)
	}
	icon, err := h.Uploads.file(c, "svg")
	if err != nil {
		return respondError(c, err)
	}
	if icon == nil {
		return respondError(c, validator.Fail("svg", "Software application svg is required"))
	}

	ctx, cancel := withTimeout(c, uploadTimeout)
	defer cancel()
	if a.SVG, err = h.Uploads.upload(ctx, icon, model.FolderSoftwareApplication); err != nil {
		return respondError(c, err)
	}
	if err := h.Apps.Create(ctx, a); err != nil {
		h.Uploads.discard(ctx, a.SVG)
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *SoftwareApplicationHandler) List(c echo.Context) error {
	ctx, cancel := withTimeout(c, storeTimeout)
	defer cancel()
	items, err := h.Apps.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func (h *SoftwareApplicationHandler) Get(c echo.Context) error {
	ctx, cancel := withTimeout(c, storeTimeout)
	defer cancel()
	a, err := h.Apps.GetByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *SoftwareApplicationHandler) Update(c echo.Context) error {
	var req softwareApplicationReq
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	icon, err := h.Uploads.file(c, "svg")
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := withTimeout(c, uploadTimeout)
	defer cancel()
	cur, err := h.Apps.GetByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	next := *cur
	model.SoftwareApplicationUpdate{Name: optional(req.Name)}.Apply(&next)
	if err := c.Validate(&next); err != nil {
		return respondError(c, err)
	}

	if icon != nil {
		if next.SVG, err = h.Uploads.upload(ctx, icon, model.FolderSoftwareApplication); err != nil {
			return respondError(c, err)
		}
	}
	if err := h.Apps.Update(ctx, &next); err != nil {
		if icon != nil {
			h.Uploads.discard(ctx, next.SVG)
		}
		return respondError(c, err)
	}
	if icon != nil {
		h.Uploads.discard(ctx, cur.SVG)
	}
	return c.JSON(http.StatusOK, next)
}

func (h *SoftwareApplicationHandler) Delete(c echo.Context) error {
	ctx, cancel := withTimeout(c, uploadTimeout)
	defer cancel()
	a, err := h.Apps.Delete(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	h.Uploads.discard(ctx, a.SVG)
	return c.JSON(http.StatusOK, echo.Map{"message": "Software application deleted"})
}
