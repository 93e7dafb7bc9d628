package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/portfolio-backend/internal/logger"
)

// Notifier delivers a notification for a contact event.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ContactConsumer reads ContactMessageEvents, emails the site owner and
// appends one line per event to <LogDir>/contact.log.
type ContactConsumer struct {
	URL        string
	Queue      string
	OwnerEmail string
	LogDir     string
	Notifier   Notifier

	mu sync.Mutex // serializes log appends
}

// Run connects and consumes until ctx is cancelled, reconnecting with
// exponential backoff when the broker goes away.
func (c *ContactConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			logger.Log.WithError(err).Warnf("contact-consumer: dial failed; retrying in %s", backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Log.WithError(err).Warn("contact-consumer: consume loop ended; reconnecting")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func (c *ContactConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		logger.Log.WithError(err).Warn("contact-consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := c.Handle(ctx, d.Body); err != nil {
			logger.Log.WithError(err).Error("contact-consumer: handle message failed")
			_ = d.Nack(false, false) // no requeue; a poison message would spin
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// Handle processes one raw delivery body.  The log line is written before
// the email so a mail outage still leaves a record.
func (c *ContactConsumer) Handle(ctx context.Context, body []byte) error {
	var ev ContactMessageEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := c.appendLog(ev); err != nil {
		return err
	}
	if c.Notifier == nil || c.OwnerEmail == "" {
		return nil
	}
	subject := "New portfolio message: " + ev.Subject
	text := fmt.Sprintf("From: %s\nReceived: %s\n\n%s\n", ev.SenderName, ev.ReceivedAt.Format(time.RFC3339), ev.Message)
	if err := c.Notifier.Send(ctx, c.OwnerEmail, subject, text); err != nil {
		return fmt.Errorf("notify owner: %w", err)
	}
	logger.Log.WithFields(logrus.Fields{"message_id": ev.MessageID}).Info("contact-consumer: owner notified")
	return nil
}

func (c *ContactConsumer) appendLog(ev ContactMessageEvent) error {
	dir := c.LogDir
	if dir == "" {
		dir = "logs"
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "contact.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] Contact message received | message_id=%s | sender=%q | subject=%q\n",
		ev.ReceivedAt.UTC().Format(time.RFC3339), ev.MessageID, ev.SenderName, ev.Subject)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
