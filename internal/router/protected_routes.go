package router

import (
	"github.com/labstack/echo/v4"
)

// registerProtected registers the endpoints that need a session.
func registerProtected(e *echo.Echo, h Handlers, mw Middlewares) {
	g := protected{e: e, session: mw.Session}

	// ---- Profile ----
	g.GET("/profileView", h.Profile.View)
	g.PUT("/profileEdit", h.Profile.Edit)
	g.PUT("/updatePassword", h.Profile.UpdatePassword)

	// ---- Messages ----
	g.GET("/getAllMessages", h.Messages.List)
	g.GET("/getMessage/:id", h.Messages.Get)
	g.DELETE("/deleteMessage/:id", h.Messages.Delete)

	// ---- Projects ----
	g.POST("/addProject", h.Projects.Add)
	g.PUT("/updateProject/:id", h.Projects.Update)
	g.DELETE("/deleteProject/:id", h.Projects.Delete)

	// ---- Skills ----
	g.POST("/addSkill", h.Skills.Add)
	g.GET("/getAllSkills", h.Skills.List)
	g.GET("/getSkill/:id", h.Skills.Get)
	g.PUT("/updateSkill/:id", h.Skills.Update)
	g.DELETE("/deleteSkill/:id", h.Skills.Delete)

	// ---- Software applications ----
	g.POST("/addSoftwareApplication", h.Apps.Add)
	g.GET("/getSoftwareApplications", h.Apps.List)
	g.GET("/getSoftwareApplication/:id", h.Apps.Get)
	g.PUT("/updateSoftwareApplication/:id", h.Apps.Update)
	g.DELETE("/deleteSoftwareApplication/:id", h.Apps.Delete)

	// ---- Timeline ----
	g.POST("/addTimeLine", h.TimeLine.Add)
	g.GET("/getAllTimeLines", h.TimeLine.List)
	g.GET("/getTimeLine/:id", h.TimeLine.Get)
	g.PUT("/updateTimeLine/:id", h.TimeLine.Update)
	g.DELETE("/deleteTimeLine/:id", h.TimeLine.Delete)
}

type protected struct {
	e       *echo.Echo
	session echo.MiddlewareFunc
}

func (p protected) GET(path string, h echo.HandlerFunc)    { p.e.GET(path, h, p.session) }
func (p protected) POST(path string, h echo.HandlerFunc)   { p.e.POST(path, h, p.session) }
func (p protected) PUT(path string, h echo.HandlerFunc)    { p.e.PUT(path, h, p.session) }
func (p protected) DELETE(path string, h echo.HandlerFunc) { p.e.DELETE(path, h, p.session) }
