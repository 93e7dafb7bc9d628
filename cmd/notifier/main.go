// Command notifier consumes contact-message events, emails the site owner
// and keeps logs/contact.log.
package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/iliyamo/portfolio-backend/internal/config"
	"github.com/iliyamo/portfolio-backend/internal/logger"
	"github.com/iliyamo/portfolio-backend/internal/queue"
	"github.com/iliyamo/portfolio-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("config")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	if cfg.OwnerEmail == "" {
		logger.Log.Warn("OWNER_EMAIL not set; events will only be logged")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := &queue.ContactConsumer{
		URL:        cfg.RabbitURL,
		Queue:      cfg.ContactQueue,
		OwnerEmail: cfg.OwnerEmail,
		LogDir:     "logs",
		Notifier:   service.NewSMTPMailer(cfg.SMTP),
	}
	logger.Log.Infof("contact notifier consuming %s", cfg.ContactQueue)
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.WithError(err).Fatal("consumer")
	}
}
