package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/portfolio-backend/internal/model"
	"github.com/iliyamo/portfolio-backend/internal/service"
	"github.com/iliyamo/portfolio-backend/internal/utils"
)

// SessionCookie describes the cookie that carries the session token.
type SessionCookie struct {
	Name   string
	Secure bool
}

func (s SessionCookie) set(c echo.Context, tok utils.SessionToken) {
	c.SetCookie(&http.Cookie{
		Name:     s.Name,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		MaxAge:   int(time.Until(tok.Exp).Seconds()),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s SessionCookie) clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     s.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// AuthHandler serves registration, login and the password reset endpoints.
type AuthHandler struct {
	Auth    *service.AuthService
	Uploads Uploads
	Cookie  SessionCookie
}

func NewAuthHandler(auth *service.AuthService, uploads Uploads, cookie SessionCookie) *AuthHandler {
	return &AuthHandler{Auth: auth, Uploads: uploads, Cookie: cookie}
}

type registerReq struct {
	FirstName   string `json:"firstName" form:"firstName"`
	LastName    string `json:"lastName" form:"lastName"`
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
	Gender      string `json:"gender" form:"gender"`
	Phone       string `json:"phone" form:"phone"`
	AboutMe     string `json:"aboutMe" form:"aboutMe"`
	Portfolio   string `json:"portfolio" form:"portfolio"`
	GithubURL   string `json:"githubUrl" form:"githubUrl"`
	LinkedInURL string `json:"linkedInUrl" form:"linkedInUrl"`
}

func (r registerReq) input() service.RegisterInput {
	t := strings.TrimSpace
	return service.RegisterInput{
		FirstName:   t(r.FirstName),
		LastName:    t(r.LastName),
		Email:       model.NormalizeEmail(r.Email),
		Password:    r.Password,
		Gender:      t(r.Gender),
		Phone:       t(r.Phone),
		AboutMe:     t(r.AboutMe),
		Portfolio:   t(r.Portfolio),
		GithubURL:   t(r.GithubURL),
		LinkedInURL: t(r.LinkedInURL),
	}
}

type loginReq struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type forgotReq struct {
	Email string `json:"email" form:"email"`
}

type newPasswordReq struct {
	OldPassword        string `json:"oldPassword" form:"oldPassword"`
	NewPassword        string `json:"newPassword" form:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword" form:"confirmNewPassword"`
}

// Register creates an account from a multipart form carrying avatar and
// resume files, then opens a session.  Uploads happen only after every text
// field passes validation and are removed again if the user cannot be stored.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	in := req.input()
	if err := c.Validate(&in); err != nil {
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
	if avatarFile == nil || resumeFile == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Avatar and Resume are required"})
	}

	ctx, cancel := withTimeout(c, uploadTimeout)
	defer cancel()

	if in.Avatar, err = h.Uploads.upload(ctx, avatarFile, model.FolderAvatar); err != nil {
		return respondError(c, err)
	}
	if in.Resume, err = h.Uploads.upload(ctx, resumeFile, model.FolderResume); err != nil {
		h.Uploads.discard(ctx, in.Avatar)
		return respondError(c, err)
	}

	u, tok, err := h.Auth.Register(ctx, in)
	if err != nil {
		h.Uploads.discard(ctx, in.Avatar, in.Resume)
		return respondError(c, err)
	}
	h.Cookie.set(c, tok)
	return c.JSON(http.StatusCreated, echo.Map{"message": "User registered successfully", "user": u})
}

// Login checks credentials and sets the session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	ctx, cancel := withTimeout(c, storeTimeout)
	defer cancel()

	u, tok, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	h.Cookie.set(c, tok)
	return c.JSON(http.StatusOK, echo.Map{"message": "User logged in successfully", "user": u})
}

// Logout expires the session cookie.  Tokens are stateless, so there is
// nothing to revoke server side.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.Cookie.clear(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "User logged out successfully"})
}

// forgotPasswordReply is sent whether or not the address has an account.
const forgotPasswordReply = "If that address is registered, a reset link has been sent"

// ForgotPassword mails a reset link to a registered address.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	ctx, cancel := withTimeout(c, uploadTimeout)
	defer cancel()

	if err := h.Auth.ForgotPassword(ctx, req.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": forgotPasswordReply})
}

// ResetPassword consumes the token from the path and stores the new
// password.  It does not log the user in.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req newPasswordReq
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	ctx, cancel := withTimeout(c, storeTimeout)
	defer cancel()

	if err := h.Auth.ResetPassword(ctx, c.Param("token"), req.NewPassword, req.ConfirmNewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset successfully"})
}
