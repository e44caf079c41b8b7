package main

import (
	"github.com/hibiken/asynq"

	"blog-backend/internal/config"
	"blog-backend/internal/infrastructure/email"
	emailjob "blog-backend/internal/infrastructure/email/job"
	"blog-backend/internal/shared"
)

// HandlerRegistry holds all job handlers.
type HandlerRegistry struct {
	sendEmail *emailjob.SendEmailHandler
}

func initializeHandlers(cfg *config.Config) *HandlerRegistry {
	sender := email.NewSMTPSender(email.SMTPConfig{
		Host:     cfg.Email.SMTPHost,
		Port:     cfg.Email.SMTPPort,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
	})

	return &HandlerRegistry{
		sendEmail: emailjob.NewSendEmailHandler(sender),
	}
}

// RegisterHandlers binds task types to handlers on mux.
func (r *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.Handle(shared.TypeSendActivationEmail, r.sendEmail)
}
