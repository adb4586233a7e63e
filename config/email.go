package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

func getSMTPHost() (*string, error) {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil, fmt.Errorf("empty SMTP host")
	}
	return &host, nil
}

func getSMTPPort() (int, error) {
	raw := os.Getenv("SMTP_PORT")
	if raw == "" {
		return 587, nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid SMTP port %q: %v", raw, err)
	}
	return port, nil
}

func getSMTPUsername() (*string, error) {
	username := os.Getenv("SMTP_USERNAME")
	if username == "" {
		return nil, fmt.Errorf("empty SMTP username")
	}
	return &username, nil
}

func getSMTPPassword() (*string, error) {
	password := os.Getenv("SMTP_PASSWORD")
	if password == "" {
		return nil, fmt.Errorf("empty SMTP password")
	}
	return &password, nil
}

func GetEmailSender() (*string, error) {
	sender := os.Getenv("EMAIL_SENDER")
	if sender == "" {
		return nil, fmt.Errorf("empty email sender")
	}
	return &sender, nil
}

func InitEmailer() (*gomail.Dialer, *string, error) {
	host, err := getSMTPHost()
	if err != nil {
		return nil, nil, err
	}
	port, err := getSMTPPort()
	if err != nil {
		return nil, nil, err
	}
	username, err := getSMTPUsername()
	if err != nil {
		return nil, nil, err
	}
	password, err := getSMTPPassword()
	if err != nil {
		return nil, nil, err
	}
	sender, err := GetEmailSender()
	if err != nil {
		return nil, nil, err
	}

	return gomail.NewDialer(*host, port, *username, *password), sender, nil
}
