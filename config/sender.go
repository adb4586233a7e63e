package config

import (
	"context"
	"fmt"
	"os"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/twilio/twilio-go"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store/sqlstore"
)

var meowWhatsapp *whatsmeow.Client

// GetDigestChannel selects the daily digest transport: "sms" (default) or
// "whatsapp".
func GetDigestChannel() string {
	channel := os.Getenv("DIGEST_CHANNEL")
	if channel == "" {
		channel = "sms"
	}
	return channel
}

// GetDefaultCountryCode prefixes phone numbers that are not in E.164 form.
func GetDefaultCountryCode() string {
	code := os.Getenv("DIGEST_COUNTRY_CODE")
	if code == "" {
		code = "+91"
	}
	return code
}

func GetExportDir() string {
	dir := os.Getenv("EXPORT_DIR")
	if dir == "" {
		dir = "./exports"
	}
	return dir
}

func getTwilioAccountSID() (*string, error) {
	sid := os.Getenv("TWILIO_ACCOUNT_SID")
	if sid == "" {
		return nil, fmt.Errorf("Twilio Account SID is missing, value: %s", sid)
	}
	return &sid, nil
}

func getTwilioAuthToken() (*string, error) {
	token := os.Getenv("TWILIO_AUTH_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("Twilio Auth Token is missing, value: %s", token)
	}
	return &token, nil
}

func getTwilioFromNumber() (*string, error) {
	number := os.Getenv("TWILIO_FROM_NUMBER")
	if number == "" {
		return nil, fmt.Errorf("Twilio From Number is missing, value: %s", number)
	}
	return &number, nil
}

// InitTwilio builds the SMS client plus the sending number.
func InitTwilio() (*twilio.RestClient, *string, error) {
	sid, err := getTwilioAccountSID()
	if err != nil {
		return nil, nil, err
	}

	token, err := getTwilioAuthToken()
	if err != nil {
		return nil, nil, err
	}

	from, err := getTwilioFromNumber()
	if err != nil {
		return nil, nil, err
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: *sid,
		Password: *token,
	})
	if client == nil {
		return nil, nil, fmt.Errorf("failed to initialize twilio")
	}

	return client, from, nil
}

// InitMeow connects the WhatsApp client, printing a pairing QR code on first
// run. The session store shares the main Postgres database.
func InitMeow() (*whatsmeow.Client, error) {
	if meowWhatsapp != nil {
		return meowWhatsapp, nil
	}

	ctx := context.Background()

	container, err := sqlstore.New(ctx, "postgres", GetDatabaseURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open whatsapp session store: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load whatsapp device: %w", err)
	}

	client := whatsmeow.NewClient(deviceStore, nil)

	if client.Store.ID == nil {
		qrChan, _ := client.GetQRChannel(ctx)
		if err := client.Connect(); err != nil {
			return nil, err
		}
		// No stored session: an admin has to scan the QR code once.
		for evt := range qrChan {
			if evt.Event == "code" {
				fmt.Println("Scan the QR code below to pair the digest sender:")
				fmt.Println(evt.Code)
				if err := qrcode.WriteFile(evt.Code, qrcode.Medium, 256, "qrcode.png"); err != nil {
					return nil, fmt.Errorf("failed to write QR code image: %w", err)
				}
			} else {
				fmt.Println("Login event:", evt.Event)
			}
		}
	} else {
		if err := client.Connect(); err != nil {
			return nil, err
		}
	}

	meowWhatsapp = client
	return meowWhatsapp, nil
}
