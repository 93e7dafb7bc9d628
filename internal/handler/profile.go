package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/portfolio-backend/internal/middleware"
	"github.com/iliyamo/portfolio-backend/internal/model"
	"github.com/iliyamo/portfolio-backend/internal/repository"
	"github.com/iliyamo/portfolio-backend/internal/service"
)

// ProfileHandler serves the authenticated user's own profile.
type ProfileHandler struct {
	Users   repository.UserRepository
	Auth    *service.AuthService
	Uploads Uploads
}

func NewProfileHandler(users repository.UserRepository, auth *service.AuthService, uploads Uploads) *ProfileHandler {
	return &ProfileHandler{Users: users, Auth: auth, Uploads: uploads}
}

// profileReq holds a profile edit.  Empty fields are left unchanged and so
// are not checked.
type profileReq struct {
	FirstName   string `json:"firstName" form:"firstName" validate:"omitempty,min=2,max=50" label:"First name"`
	LastName    string `json:"lastName" form:"lastName" validate:"omitempty,min=2,max=50" label:"Last name"`
	Gender      string `json:"gender" form:"gender" validate:"omitempty,gender" label:"Gender"`
	Phone       string `json:"phone" form:"phone" validate:"omitempty,phone" label:"Phone number"`
	AboutMe     string `json:"aboutMe" form:"aboutMe" validate:"omitempty,min=5" label:"About Me"`
	Portfolio   string `json:"portfolio" form:"portfolio" validate:"omitempty,weburl" label:"Portfolio"`
	GithubURL   string `json:"githubUrl" form:"githubUrl" validate:"omitempty,weburl" label:"GitHub"`
	LinkedInURL string `json:"linkedInUrl" form:"linkedInUrl" validate:"omitempty,weburl" label:"LinkedIn"`
}

func (r *profileReq) trim() {
	for _, f := range []*string{&r.FirstName, &r.LastName, &r.Gender, &r.Phone, &r.AboutMe, &r.Portfolio, &r.GithubURL, &r.LinkedInURL} {
		*f = strings.TrimSpace(*f)
	}
}

// View returns the session user.
func (h *ProfileHandler) View(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// Edit changes profile fields and optionally replaces the avatar or resume.
// New files are uploaded first; the previous assets are deleted only after
// the profile write succeeded.
func (h *ProfileHandler) Edit(c echo.Context) error {
	me := middleware.CurrentUser(c)
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	req.trim()
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}
	avatarFile, err := h.Uploads.file(c, "avatar")
	if err != nil {
		return respondError(c, err)
	}
	resumeFile, err := h.Uploads.file(c, "resume")
	if err != nil {
		return respondError(c, err)
	}

	upd := model.ProfileUpdate{
		FirstName:   optional(req.FirstName),
		LastName:    optional(req.LastName),
		Phone:       optional(req.Phone),
		AboutMe:     optional(req.AboutMe),
		Portfolio:   optional(req.Portfolio),
		GithubURL:   optional(req.GithubURL),
		LinkedInURL: optional(req.LinkedInURL),
	}
	if req.Gender != "" {
		g, _ := model.NormalizeGender(req.Gender)
		upd.Gender = &g
	}

	ctx, cancel := withTimeout(c, uploadTimeout)
	defer cancel()

	var fresh, stale []model.Media
	if avatarFile != nil {
		m, err := h.Uploads.upload(ctx, avatarFile, model.FolderAvatar)
		if err != nil {
			return respondError(c, err)
		}
		upd.Avatar = &m
		fresh, stale = append(fresh, m), append(stale, me.Avatar)
	}
	if resumeFile != nil {
		m, err := h.Uploads.upload(ctx, resumeFile, model.FolderResume)
		if err != nil {
			h.Uploads.discard(ctx, fresh...)
			return respondError(c, err)
		}
		upd.Resume = &m
		fresh, stale = append(fresh, m), append(stale, me.Resume)
	}

	u, err := h.Users.UpdateProfile(ctx, me.ID.Hex(), upd)
	if err != nil {
		h.Uploads.discard(ctx, fresh...)
		return respondError(c, err)
	}
	h.Uploads.discard(ctx, stale...)
	return c.JSON(http.StatusOK, echo.Map{"message": "Profile updated successfully", "user": u})
}

// UpdatePassword changes the password after checking the current one.
func (h *ProfileHandler) UpdatePassword(c echo.Context) error {
	var req newPasswordReq
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	ctx, cancel := withTimeout(c, storeTimeout)
	defer cancel()

	err := h.Auth.UpdatePassword(ctx, middleware.CurrentUser(c), req.OldPassword, req.NewPassword, req.ConfirmNewPassword)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password updated successfully"})
}
