package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/portfolio-backend/internal/model"
	"github.com/iliyamo/portfolio-backend/internal/repository"
)

type TimeLineHandler struct {
	TimeLines repository.TimeLineRepository
}

func NewTimeLineHandler(timelines repository.TimeLineRepository) *TimeLineHandler {
	return &TimeLineHandler{TimeLines: timelines}
}

// timeLineReq accepts from/to at the top level or nested under timeLine.
type timeLineReq struct {
	Title       string       `json:"title" form:"title"`
	Description string       `json:"description" form:"description"`
	From        string       `json:"from" form:"from"`
	To          string       `json:"to" form:"to"`
	TimeLine    model.Period `json:"timeLine"`
}

func (r timeLineReq) period() (from, to string) {
	from, to = r.From, r.To
	if from == "" {
		from = r.TimeLine.From
	}
	if to == "" {
		to = r.TimeLine.To
	}
	return strings.TrimSpace(from), strings.TrimSpace(to)
}

func (h *TimeLineHandler) Add(c echo.Context) error {
	var req timeLineReq
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	from, to := req.period()
	t := &model.TimeLine{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		TimeLine:    model.Period{From: from, To: to},
	}
	if err := c.Validate(t); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := withTimeout(c, storeTimeout)
	defer cancel()
	if err := h.TimeLines.Create(ctx, t); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// List returns entries newest first.
func (h *TimeLineHandler) List(c echo.Context) error {
	ctx, cancel := withTimeout(c, storeTimeout)
	defer cancel()
	items, err := h.TimeLines.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func (h *TimeLineHandler) Get(c echo.Context) error {
	ctx, cancel := withTimeout(c, storeTimeout)
	defer cancel()
	t, err := h.TimeLines.GetByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TimeLineHandler) Update(c echo.Context) error {
	var req timeLineReq
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	ctx, cancel := withTimeout(c, storeTimeout)
	defer cancel()
	cur, err := h.TimeLines.GetByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	from, to := req.period()
	next := *cur
	model.TimeLineUpdate{
		Title:       optional(req.Title),
		Description: optional(req.Description),
		From:        optional(from),
		To:          optional(to),
	}.Apply(&next)
	if err := c.Validate(&next); err != nil {
		return respondError(c, err)
	}
	if err := h.TimeLines.Update(ctx, &next); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, next)
}

func (h *TimeLineHandler) Delete(c echo.Context) error {
	ctx, cancel := withTimeout(c, storeTimeout)
	defer cancel()
	if err := h.TimeLines.Delete(ctx, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Timeline entry deleted"})
}
