package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/portfolio-backend/internal/model"
	"github.com/iliyamo/portfolio-backend/internal/repository"
	"github.com/iliyamo/portfolio-backend/internal/validator"
)

type SkillHandler struct {
	Skills  repository.SkillRepository
	Uploads Uploads
}

func NewSkillHandler(skills repository.SkillRepository, uploads Uploads) *SkillHandler {
	return &SkillHandler{Skills: skills, Uploads: uploads}
}

type skillReq struct {
	Title       string `json:"title" form:"title"`
	Proficiency string `json:"proficiency" form:"proficiency"`
}

// Add creates a skill; the svg icon file is required.
func (h *SkillHandler) Add(c echo.Context) error {
	var req skillReq
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	prof, _ := model.NormalizeProficiency(req.Proficiency)
	s := &model.Skill{Title: strings.TrimSpace(req.Title), Proficiency: prof}
	if err := c.Validate(s); err != nil {
		return respondError(c, err)
	}
	icon, err := h.Uploads.file(c, "svg")
	if err != nil {
		return respondError(c, err)
	}
	if icon == nil {
		return respondError(c, validator.Fail("svg", "Skill svg is required"))
	}

	ctx, cancel := withTimeout(c, uploadTimeout)
	defer cancel()
	if s.SVG, err = h.Uploads.upload(ctx, icon, model.FolderSkill); err != nil {
		return respondError(c, err)
	}
	if err := h.Skills.Create(ctx, s); err != nil {
		h.Uploads.discard(ctx, s.SVG)
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *SkillHandler) List(c echo.Context) error {
	ctx, cancel := withTimeout(c, storeTimeout)
	defer cancel()
	items, err := h.Skills.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func (h *SkillHandler) Get(c echo.Context) error {
	ctx, cancel := withTimeout(c, storeTimeout)
	defer cancel()
	s, err := h.Skills.GetByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// Update changes title, proficiency or icon.  Blank fields are kept.
func (h *SkillHandler) Update(c echo.Context) error {
	var req skillReq
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	icon, err := h.Uploads.file(c, "svg")
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := withTimeout(c, uploadTimeout)
	defer cancel()
	cur, err := h.Skills.GetByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	upd := model.SkillUpdate{Title: optional(req.Title)}
	if lv := optional(req.Proficiency); lv != nil {
		p, _ := model.NormalizeProficiency(*lv)
		upd.Proficiency = &p
	}
	next := *cur
	upd.Apply(&next)
	if err := c.Validate(&next); err != nil {
		return respondError(c, err)
	}

	if icon != nil {
		if next.SVG, err = h.Uploads.upload(ctx, icon, model.FolderSkill); err != nil {
			return respondError(c, err)
		}
	}
	if err := h.Skills.Update(ctx, &next); err != nil {
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

// Delete removes the skill and its icon asset.
func (h *SkillHandler) Delete(c echo.Context) error {
	ctx, cancel := withTimeout(c, uploadTimeout)
	defer cancel()
	s, err := h.Skills.Delete(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	h.Uploads.discard(ctx, s.SVG)
	return c.JSON(http.StatusOK, echo.Map{"message": "Skill deleted"})
}
