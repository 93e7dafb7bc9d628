package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/portfolio-backend/internal/logger"
	"github.com/iliyamo/portfolio-backend/internal/model"
	"github.com/iliyamo/portfolio-backend/internal/queue"
	"github.com/iliyamo/portfolio-backend/internal/repository"
)

// ContactPublisher announces stored contact messages.
type ContactPublisher interface {
	PublishContact(ctx context.Context, ev queue.ContactMessageEvent) error
}

// MessageHandler serves the public contact form and the owner's inbox.
type MessageHandler struct {
	Messages repository.MessageRepository
	Events   ContactPublisher // optional
}

func NewMessageHandler(messages repository.MessageRepository, events ContactPublisher) *MessageHandler {
	return &MessageHandler{Messages: messages, Events: events}
}

type messageReq struct {
	SenderName string `json:"senderName" form:"senderName"`
	Subject    string `json:"subject" form:"subject"`
	Message    string `json:"message" form:"message"`
}

// Send stores a contact message.  The notification event is best effort:
// once the message is stored the request succeeds even if the broker is
// down.
func (h *MessageHandler) Send(c echo.Context) error {
	var req messageReq
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	m := &model.Message{
		SenderName: strings.TrimSpace(req.SenderName),
		Subject:    strings.TrimSpace(req.Subject),
		Message:    strings.TrimSpace(req.Message),
	}
	if err := c.Validate(m); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := withTimeout(c, storeTimeout)
	defer cancel()
	if err := h.Messages.Create(ctx, m); err != nil {
		return respondError(c, err)
	}
	h.publish(ctx, m)
	return c.JSON(http.StatusCreated, echo.Map{"message": "Message sent", "data": m})
}

func (h *MessageHandler) publish(ctx context.Context, m *model.Message) {
	if h.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	err := h.Events.PublishContact(ctx, queue.ContactMessageEvent{
		MessageID:  m.ID.Hex(),
		SenderName: m.SenderName,
		Subject:    m.Subject,
		Message:    m.Message,
		ReceivedAt: m.CreatedAt,
	})
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"message_id": m.ID.Hex()}).WithError(err).Warn("contact event not published")
	}
}

// List returns every message, newest first.
func (h *MessageHandler) List(c echo.Context) error {
	ctx, cancel := withTimeout(c, storeTimeout)
	defer cancel()
	items, err := h.Messages.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func (h *MessageHandler) Get(c echo.Context) error {
	ctx, cancel := withTimeout(c, storeTimeout)
	defer cancel()
	m, err := h.Messages.GetByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MessageHandler) Delete(c echo.Context) error {
	ctx, cancel := withTimeout(c, storeTimeout)
	defer cancel()
	if err := h.Messages.Delete(ctx, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Message deleted"})
}
