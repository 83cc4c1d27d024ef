package repository

import (
	"attendance/config"
	"attendance/domain"
	"context"
	"strings"

	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"gopkg.in/gomail.v2"
)

type notifierRepository struct {
	sms         *config.SMSConfig
	meowClient  *whatsmeow.Client
	mailDialer  *gomail.Dialer
	emailSender string
	logs        domain.NotificationLogRepo
}

func NewNotifierRepository(sms *config.SMSConfig, meow *whatsmeow.Client, mail *gomail.Dialer, emailSender string, logs domain.NotificationLogRepo) domain.NotifierRepo {
	return &notifierRepository{
		sms:         sms,
		meowClient:  meow,
		mailDialer:  mail,
		emailSender: emailSender,
		logs:        logs,
	}
}

// NormalizePhone converts whatever callers stored into a dialable
// international number. countryCode has no "+" ("92", "62", ...).
func NormalizePhone(raw, countryCode string) string {
	normalized := strings.TrimSpace(raw)
	if normalized == "" {
		return ""
	}
	if strings.HasPrefix(normalized, "+") {
		return normalized
	}
	switch {
	case strings.HasPrefix(normalized, "0"):
		// local trunk prefix, e.g. 0300... -> +92300...
		return "+" + countryCode + normalized[1:]
	case strings.HasPrefix(normalized, countryCode):
		return "+" + normalized
	case len(normalized) == 10:
		// bare subscriber number without the leading zero
		return "+" + countryCode + normalized
	default:
		return "+" + normalized
	}
}

// SendText is single-attempt, best-effort. Every outcome comes back as a
// SendResult; only the attempt log can fail silently.
func (nr *notifierRepository) SendText(ctx context.Context, phoneRaw, message string) domain.SendResult {
	log := config.GetLogrusInstance()

	if nr.sms == nil || !nr.sms.Enabled || nr.sms.Client == nil {
		log.Warnf("SMS disabled or not configured, skipping send to %s", phoneRaw)
		return domain.SendResult{Success: false, Error: "SMS not configured"}
	}

	normalized := NormalizePhone(phoneRaw, nr.sms.CountryCode)
	if normalized == "" {
		log.Warn("Empty phone number, skipping SMS")
		return domain.SendResult{Success: false, Error: "Empty phone number"}
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(normalized)
	params.SetFrom(nr.sms.FromNumber)
	params.SetBody(message)

	resp, err := nr.sms.Client.Api.CreateMessage(params)
	if err != nil {
		log.Errorf("Error sending SMS to %s: %v", normalized, err)
		result := domain.SendResult{Success: false, Error: err.Error()}
		nr.record(ctx, "sms", normalized, result)
		return result
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	log.Infof("SMS sent to %s. SID: %s", normalized, sid)
	result := domain.SendResult{Success: true, MessageID: sid}
	nr.record(ctx, "sms", normalized, result)

	// Mirror to WhatsApp when a logged-in client is available.
	if nr.meowClient != nil {
		nr.sendWA(ctx, normalized, message)
	}

	return result
}

func (nr *notifierRepository) sendWA(ctx context.Context, normalized, message string) {
	log := config.GetLogrusInstance()

	jid := types.NewJID(strings.TrimPrefix(normalized, "+"), types.DefaultUserServer)
	conversationMessage := &waE2E.Message{
		Conversation: &message,
	}

	resp, err := nr.meowClient.SendMessage(ctx, jid, conversationMessage)
	if err != nil {
		log.Errorf("Error sending WhatsApp text to %s: %v", normalized, err)
		nr.record(ctx, "whatsapp", normalized, domain.SendResult{Success: false, Error: err.Error()})
		return
	}
	nr.record(ctx, "whatsapp", normalized, domain.SendResult{Success: true, MessageID: string(resp.ID)})
}

func (nr *notifierRepository) SendEmail(ctx context.Context, to, subject, body string) domain.SendResult {
	log := config.GetLogrusInstance()

	if nr.mailDialer == nil || nr.emailSender == "" {
		log.Warnf("Emailer not configured, skipping email to %s", to)
		return domain.SendResult{Success: false, Error: "Emailer not configured"}
	}
	if strings.TrimSpace(to) == "" {
		return domain.SendResult{Success: false, Error: "Empty email address"}
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", nr.emailSender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := nr.mailDialer.DialAndSend(msg); err != nil {
		log.Errorf("Error sending email to %s: %v", to, err)
		result := domain.SendResult{Success: false, Error: err.Error()}
		nr.record(ctx, "email", to, result)
		return result
	}

	result := domain.SendResult{Success: true}
	nr.record(ctx, "email", to, result)
	return result
}

func (nr *notifierRepository) record(ctx context.Context, channel, recipient string, result domain.SendResult) {
	if nr.logs == nil {
		return
	}
	entry := &domain.NotificationLog{
		Channel:   channel,
		Recipient: recipient,
		Success:   result.Success,
	}
	if result.Error != "" {
		detail := result.Error
		entry.Detail = &detail
	}
	if err := nr.logs.Record(ctx, entry); err != nil {
		config.GetLogrusInstance().Errorf("could not record notification attempt: %v", err)
	}
}
