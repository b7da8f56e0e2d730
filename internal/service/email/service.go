package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/resend/resend-go/v3"

	"helpdesk-api/internal/config"
)

type Service interface {
	SendTicketCreatedEmail(ctx context.Context, toEmail, advisorName, creatorName, ticketTitle string) error
	SendTicketResolvedEmail(ctx context.Context, toEmail, creatorName, advisorName, ticketTitle string) error
	SendWelcomeEmail(ctx context.Context, toEmail, fullName, temporaryPassword string) error
}

type service struct {
	client       *resend.Client
	config       *config.Config
	templatePath string
}

func NewService(cfg *config.Config) Service {
	client := resend.NewClient(cfg.ResendAPIKey)
	templatePath := "internal/service/templates/email"
	return &service{
		client:       client,
		config:       cfg,
		templatePath: templatePath,
	}
}

func (s *service) sendEmail(toEmail, subject, templateName string, data interface{}) error {
	tmpl, err := template.ParseFiles(
		filepath.Join(s.templatePath, "layout.html"),
		filepath.Join(s.templatePath, templateName),
	)
	if err != nil {
		return fmt.Errorf("failed to parse email templates: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Help Desk <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	_, err = s.client.Emails.Send(params)
	return err
}

func (s *service) SendTicketCreatedEmail(ctx context.Context, toEmail, advisorName, creatorName, ticketTitle string) error {
	data := struct {
		Title       string
		Name        string
		CreatorName string
		TicketTitle string
		Link        string
	}{
		Title:       "New Ticket in Your Category",
		Name:        advisorName,
		CreatorName: creatorName,
		TicketTitle: ticketTitle,
		Link:        fmt.Sprintf("https://%s/tickets", s.config.Domain),
	}
	return s.sendEmail(toEmail, fmt.Sprintf("New Ticket: %s", ticketTitle), "ticket_created.html", data)
}

func (s *service) SendTicketResolvedEmail(ctx context.Context, toEmail, creatorName, advisorName, ticketTitle string) error {
	data := struct {
		Title       string
		Name        string
		AdvisorName string
		TicketTitle string
		Link        string
	}{
		Title:       "Your Ticket Has Been Resolved",
		Name:        creatorName,
		AdvisorName: advisorName,
		TicketTitle: ticketTitle,
		Link:        fmt.Sprintf("https://%s/tickets", s.config.Domain),
	}
	return s.sendEmail(toEmail, fmt.Sprintf("Ticket Resolved: %s", ticketTitle), "ticket_resolved.html", data)
}

func (s *service) SendWelcomeEmail(ctx context.Context, toEmail, fullName, temporaryPassword string) error {
	data := struct {
		Title             string
		Name              string
		Email             string
		TemporaryPassword string
		Link              string
	}{
		Title:             "Welcome to the Help Desk",
		Name:              fullName,
		Email:             toEmail,
		TemporaryPassword: temporaryPassword,
		Link:              fmt.Sprintf("https://%s/login", s.config.Domain),
	}
	return s.sendEmail(toEmail, "Your Help Desk Account", "welcome.html", data)
}
