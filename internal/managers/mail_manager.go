package managers

import (
	"context"
	"os"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/matcornic/hermes/v2"
	"github.com/sirupsen/logrus"
)

// MailMgr sends transactional mail to users.
type MailMgr interface {
	SendWelcomeMail(email, username string) error
}

// MailManager delivers mail via Mailgun using hermes-rendered templates.
type MailManager struct {
	client *mailgun.MailgunImpl
	hermes hermes.Hermes
}

// NewMailManager creates a new MailManager from the MAILGUN_* environment.
func NewMailManager() MailMgr {
	client := mailgun.NewMailgun(os.Getenv("MAILGUN_DOMAIN"), os.Getenv("MAILGUN_API_KEY"))
	client.SetAPIBase(mailgun.APIBaseEU)

	h := hermes.Hermes{
		Product: hermes.Product{
			Name:      "Lovelog",
			Link:      "https://lovelog.app",
			Copyright: "Copyright © 2024 Lovelog. All rights reserved.",
		},
	}

	return &MailManager{
		client: client,
		hermes: h,
	}
}

// SendWelcomeMail greets a freshly registered user. Outside production the
// mail is logged instead of sent so local runs need no Mailgun credentials.
func (mm *MailManager) SendWelcomeMail(email, username string) error {
	mail := hermes.Email{
		Body: hermes.Body{
			Name: username,
			Intros: []string{
				"Welcome to Lovelog! We're very excited to have you on board.",
				"Your journal is ready: write your first entry, upload a few photos, or set a countdown to a day you're looking forward to.",
			},
			Outros: []string{
				"Need help, or have questions? Just reply to this email, we'd love to help.",
			},
		},
	}

	return mm.sendMail(email, "Welcome to Lovelog!", mail)
}

func (mm *MailManager) sendMail(email, subject string, mail hermes.Email) error {
	body, err := mm.hermes.GenerateHTML(mail)
	if err != nil {
		return err
	}

	if os.Getenv("ENVIRONMENT") != "production" {
		logrus.WithFields(logrus.Fields{
			"email":   email,
			"subject": subject,
		}).Info("Skipping mail delivery outside production")
		return nil
	}

	message := mm.client.NewMessage("Lovelog <no-reply@"+os.Getenv("MAILGUN_DOMAIN")+">", subject, "", email)
	message.SetHtml(body)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(2*time.Second))
	defer cancel()

	_, _, err = mm.client.Send(ctx, message)
	return err
}
