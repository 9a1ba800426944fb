package mailer

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"sombot-backend/model"

	"github.com/mailersend/mailersend-go"
)

// Mailer sends the ticket and receipt emails through MailerSend.
type Mailer struct {
	client    *mailersend.Mailersend
	fromName  string
	fromEmail string
}

func New(apiKey, fromName, fromEmail string) *Mailer {
	return &Mailer{
		client:    mailersend.NewMailersend(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// SendTicket delivers the QR ticket email after issuance.
func (m *Mailer) SendTicket(ctx context.Context, toEmail, toName string, ev *model.Event, qrURL string) error {
	subject := fmt.Sprintf("Your ticket for %s", eventName(ev))

	message := m.message(toEmail, toName)
	message.SetSubject(subject)
	message.SetHTML(ticketHTML(toName, ev, qrURL))
	message.SetText(fmt.Sprintf("Your ticket for %s. Show this QR code at the entrance: %s", eventName(ev), qrURL))

	if _, err := m.client.Email.Send(ctx, message); err != nil {
		return fmt.Errorf("sendTicket: error sending email to %s: %w", toEmail, err)
	}

	return nil
}

// SendReceipt delivers the payment receipt with the PDF attached.
func (m *Mailer) SendReceipt(ctx context.Context, toEmail, toName string, ev *model.Event, price int64) error {
	pdf, err := ReceiptPDF(toName, ev, price)
	if err != nil {
		return fmt.Errorf("sendReceipt: %w", err)
	}

	message := m.message(toEmail, toName)
	message.SetSubject(fmt.Sprintf("Receipt for %s", eventName(ev)))
	message.SetText(fmt.Sprintf("Thank you for your purchase. Your receipt for %s is attached.", eventName(ev)))
	message.AddAttachment(mailersend.Attachment{
		Filename: "receipt.pdf",
		Content:  base64.StdEncoding.EncodeToString(pdf),
	})

	if _, err := m.client.Email.Send(ctx, message); err != nil {
		return fmt.Errorf("sendReceipt: error sending email to %s: %w", toEmail, err)
	}

	return nil
}

func (m *Mailer) message(toEmail, toName string) *mailersend.Message {
	message := m.client.Email.NewMessage()
	message.SetFrom(mailersend.From{Name: m.fromName, Email: m.fromEmail})
	message.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	return message
}

func ticketHTML(toName string, ev *model.Event, qrURL string) string {
	when := ""
	if ev.StartTime != nil {
		when = ev.StartTime.Format(time.RFC1123)
	}

	return fmt.Sprintf(
		`<h2>Hi %s,</h2>
<p>Here is your ticket for <strong>%s</strong>%s.</p>
<p><img src=%q alt="ticket QR code" width="256" height="256"/></p>
<p>Show this QR code at the entrance.</p>`,
		toName, eventName(ev), whenSuffix(when), qrURL)
}

func whenSuffix(when string) string {
	if when == "" {
		return ""
	}
	return fmt.Sprintf(" on %s", when)
}

func eventName(ev *model.Event) string {
	if ev == nil || ev.EventName == nil {
		return "your event"
	}
	return *ev.EventName
}
