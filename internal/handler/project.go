package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/portfolio-backend/internal/model"
	"github.com/iliyamo/portfolio-backend/internal/repository"
	"github.com/iliyamo/portfolio-backend/internal/validator"
)

// ProjectHandler serves portfolio projects.  Reads are public and cached;
// every write drops the cache.
type ProjectHandler struct {
	Projects repository.ProjectRepository
	Uploads  Uploads
	Cache    CacheInvalidator // optional
}

func NewProjectHandler(projects repository.ProjectRepository, uploads Uploads, cache CacheInvalidator) *ProjectHandler {
	return &ProjectHandler{Projects: projects, Uploads: uploads, Cache: cache}
}

type projectReq struct {
	Title             string   `json:"title" form:"title"`
	Description       string   `json:"description" form:"description"`
	Technologies      []string `json:"technologies" form:"technologies"`
	Languages         []string `json:"languages" form:"languages"`
	ClearTechnologies bool     `json:"clearTechnologies" form:"clearTechnologies"`
	ClearLanguages    bool     `json:"clearLanguages" form:"clearLanguages"`
	LiveLink          string   `json:"liveLink" form:"liveLink"`
	GitLink           string   `json:"gitLink" form:"gitLink"`
	Stack             string   `json:"stack" form:"stack"`
	Deployed          optBool  `json:"deployed" form:"deployed"`
}

func (r projectReq) update() model.ProjectUpdate {
	return model.ProjectUpdate{
		Title:             optional(r.Title),
		Description:       optional(r.Description),
		Technologies:      splitTags(r.Technologies),
		Languages:         splitTags(r.Languages),
		ClearTechnologies: r.ClearTechnologies,
		ClearLanguages:    r.ClearLanguages,
		LiveLink:          optional(r.LiveLink),
		GitLink:           optional(r.GitLink),
		Stack:             optional(r.Stack),
		Deployed:          r.Deployed.ptr(),
	}
}

func (h *ProjectHandler) invalidate(c echo.Context) {
	if h.Cache != nil {
		h.Cache.Invalidate(c.Request().Context())
	}
}

// Add creates a project from a multipart form with a projectBanner file.
func (h *ProjectHandler) Add(c echo.Context) error {
	var req projectReq
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	banner, err := h.Uploads.file(c, "projectBanner")
	if err != nil {
		return respondError(c, err)
	}
	p := &model.Project{
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Technologies: model.MergeTags(nil, splitTags(req.Technologies)),
		Languages:    model.MergeTags(nil, splitTags(req.Languages)),
		LiveLink:     strings.TrimSpace(req.LiveLink),
		GitLink:      strings.TrimSpace(req.GitLink),
		Stack:        strings.TrimSpace(req.Stack),
		Deployed:     req.Deployed.Value,
	}
	if err := c.Validate(p); err != nil {
		return respondError(c, err)
	}
	if banner == nil {
		return respondError(c, validator.Fail("projectBanner", "Project banner image is required"))
	}

	ctx, cancel := withTimeout(c, uploadTimeout)
	defer cancel()
	if p.ProjectBanner, err = h.Uploads.upload(ctx, banner, model.FolderProjectBanner); err != nil {
		return respondError(c, err)
	}
	if err := h.Projects.Create(ctx, p); err != nil {
		h.Uploads.discard(ctx, p.ProjectBanner)
		return respondError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, p)
}

// List returns projects in insertion order.
func (h *ProjectHandler) List(c echo.Context) error {
	ctx, cancel := withTimeout(c, storeTimeout)
	defer cancel()
	items, err := h.Projects.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func (h *ProjectHandler) Get(c echo.Context) error {
	ctx, cancel := withTimeout(c, storeTimeout)
	defer cancel()
	p, err := h.Projects.GetByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Update applies a partial change.  Tag lists are merged into the stored
// sets unless the matching clear flag is sent.  A new banner replaces the
// old one, which is deleted after the write.
func (h *ProjectHandler) Update(c echo.Context) error {
	var req projectReq
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	banner, err := h.Uploads.file(c, "projectBanner")
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := withTimeout(c, uploadTimeout)
	defer cancel()
	cur, err := h.Projects.GetByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	next := *cur
	req.update().Apply(&next)
	if err := c.Validate(&next); err != nil {
		return respondError(c, err)
	}

	if banner != nil {
		if next.ProjectBanner, err = h.Uploads.upload(ctx, banner, model.FolderProjectBanner); err != nil {
			return respondError(c, err)
		}
	}
	if err := h.Projects.Update(ctx, &next); err != nil {
		if banner != nil {
			h.Uploads.discard(ctx, next.ProjectBanner)
		}
		return respondError(c, err)
	}
	if banner != nil {
		h.Uploads.discard(ctx, cur.ProjectBanner)
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, next)
}

// Delete removes the project and its banner asset.
func (h *ProjectHandler) Delete(c echo.Context) error {
	ctx, cancel := withTimeout(c, uploadTimeout)
	defer cancel()
	p, err := h.Projects.Delete(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	h.Uploads.discard(ctx, p.ProjectBanner)
	h.invalidate(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "Project deleted"})
}
