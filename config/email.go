package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

var goMailDialer *gomail.Dialer

func InitEmailer() error {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return fmt.Errorf("smtp host invalid, value : %s", host)
	}

	portRaw := os.Getenv("SMTP_PORT")
	port, err := strconv.Atoi(portRaw)
	if err != nil {
		return fmt.Errorf("smtp port invalid, value : %s", portRaw)
	}

	sender, err := GetEmailSender()
	if err != nil {
		return err
	}

	pass := os.Getenv("EMAIL_SENDER_PASSWORD")
	if pass == "" {
		return fmt.Errorf("email password invalid, value : %s", pass)
	}

	goMailDialer = gomail.NewDialer(host, port, sender, pass)
	return nil
}

func GetEmailDialer() *gomail.Dialer {
	return goMailDialer
}

func GetEmailSender() (string, error) {
	sender := os.Getenv("EMAIL_SENDER")
	if sender == "" {
		return "", fmt.Errorf("empty email sender")
	}
	return sender, nil
}

func GetSchoolPhone() (string, error) {
	sp := os.Getenv("SCHOOL_PHONE")
	if sp == "" {
		return "", fmt.Errorf("empty school phone number")
	}
	return sp, nil
}
