package repository

import (
	"context"
	"fmt"
	"strings"

	"attendance/domain"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
)

type twilioSender struct {
	client      *twilio.RestClient
	from        string
	countryCode string
}

// NewTwilioSender delivers digests as SMS. Numbers without a leading "+"
// are prefixed with the configured country code.
func NewTwilioSender(client *twilio.RestClient, from, countryCode string) domain.DigestSender {
	return &twilioSender{
		client:      client,
		from:        from,
		countryCode: countryCode,
	}
}

func (ts *twilioSender) Send(ctx context.Context, to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(normalizePhone(to, ts.countryCode))
	params.SetFrom(ts.from)
	params.SetBody(body)

	_, err := ts.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS to %s: %w", to, err)
	}
	return nil
}

type whatsappSender struct {
	client      *whatsmeow.Client
	countryCode string
}

// NewWhatsappSender delivers digests over WhatsApp instead of SMS.
func NewWhatsappSender(client *whatsmeow.Client, countryCode string) domain.DigestSender {
	return &whatsappSender{
		client:      client,
		countryCode: countryCode,
	}
}

func (ws *whatsappSender) Send(ctx context.Context, to, body string) error {
	phone := strings.TrimPrefix(normalizePhone(to, ws.countryCode), "+")
	jid := types.NewJID(phone, types.DefaultUserServer)

	message := &waE2E.Message{
		Conversation: &body,
	}

	_, err := ws.client.SendMessage(ctx, jid, message)
	if err != nil {
		return fmt.Errorf("failed to send WhatsApp message to %s: %w", to, err)
	}
	return nil
}

func normalizePhone(raw, countryCode string) string {
	phone := strings.TrimSpace(raw)
	if phone == "" || strings.HasPrefix(phone, "+") {
		return phone
	}
	// Local numbers drop their leading zero before the country code.
	phone = strings.TrimPrefix(phone, "0")
	return countryCode + phone
}
