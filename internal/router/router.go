package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/portfolio-backend/internal/handler"
)

// Handlers groups everything the routes dispatch to.
type Handlers struct {
	Auth     *handler.AuthHandler
	Profile  *handler.ProfileHandler
	Messages *handler.MessageHandler
	Projects *handler.ProjectHandler
	Skills   *handler.SkillHandler
	Apps     *handler.SoftwareApplicationHandler
	TimeLine *handler.TimeLineHandler
	Health   echo.HandlerFunc
}

// Middlewares holds the per-route-group middleware.
type Middlewares struct {
	Session   echo.MiddlewareFunc // authenticated routes
	RateLimit echo.MiddlewareFunc // credential and contact endpoints
	Cache     echo.MiddlewareFunc // public project reads
}

// RegisterRoutes registers the unauthenticated endpoints.
func RegisterRoutes(e *echo.Echo, h Handlers, mw Middlewares) {
	e.GET("/healthz", h.Health)

	// Routes share the root path, so middleware is attached per route; a
	// root-level group would also wrap the not-found handler.
	e.POST("/register", h.Auth.Register, mw.RateLimit)
	e.POST("/login", h.Auth.Login, mw.RateLimit)
	e.POST("/forgotPassword", h.Auth.ForgotPassword, mw.RateLimit)
	e.POST("/resetPassword/:token", h.Auth.ResetPassword, mw.RateLimit)
	e.POST("/send", h.Messages.Send, mw.RateLimit)
	e.POST("/logout", h.Auth.Logout)

	e.GET("/getAllProjects", h.Projects.List, mw.Cache)
	e.GET("/getProject/:id", h.Projects.Get, mw.Cache)

	registerProtected(e, h, mw)
}
