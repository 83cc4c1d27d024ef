package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	_ "github.com/lib/pq"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/twilio/twilio-go"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store/sqlstore"
)

var meowWhatsapp *whatsmeow.Client

// SMSConfig carries everything the notifier needs to send through Twilio.
// Enabled=false means every send short-circuits to a non-fatal failure.
type SMSConfig struct {
	Client      *twilio.RestClient
	FromNumber  string
	CountryCode string
	Enabled     bool
}

// InitTwilio never fails the boot: missing credentials produce a disabled
// gateway, matching the rule that attendance must work without SMS.
func InitTwilio() *SMSConfig {
	log := GetLogrusInstance()

	cfg := &SMSConfig{
		FromNumber:  os.Getenv("TWILIO_FROM_NUMBER"),
		CountryCode: GetSMSCountryCode(),
	}

	if strings.EqualFold(os.Getenv("SEND_SMS"), "false") {
		log.Warn("SEND_SMS is false; SMS delivery disabled")
		return cfg
	}

	sid := os.Getenv("TWILIO_ACCOUNT_SID")
	token := os.Getenv("TWILIO_AUTH_TOKEN")
	if sid == "" || token == "" || cfg.FromNumber == "" {
		log.Warn("Twilio credentials not configured; SMS will not be sent")
		return cfg
	}

	cfg.Client = twilio.NewRestClient()
	cfg.Enabled = true
	return cfg
}

func GetSMSCountryCode() string {
	v := os.Getenv("SMS_COUNTRY_CODE")
	if v == "" {
		return "92"
	}
	return v
}

func getDBMS() (*string, error) {
	dbms := os.Getenv("DBMS")
	if dbms == "" {
		return nil, fmt.Errorf("DBMS is missing, value: %s", dbms)
	}
	return &dbms, nil
}

func getDBUser() (*string, error) {
	v := os.Getenv("DB_USER")
	if v == "" {
		return nil, fmt.Errorf("Database User is missing, value: %s", v)
	}
	return &v, nil
}

func getDBPassword() (*string, error) {
	v := os.Getenv("DB_PASSWORD")
	if v == "" {
		return nil, fmt.Errorf("Database Password is missing, value: %s", v)
	}
	return &v, nil
}

func getDBName() (*string, error) {
	v := os.Getenv("DB_DATABASE")
	if v == "" {
		return nil, fmt.Errorf("DB Name is missing, value: %s", v)
	}
	return &v, nil
}

// InitMeow connects the WhatsApp client. First boot prints a login QR code
// and writes it to qrcode.png for the admin to scan.
func InitMeow() (*whatsmeow.Client, error) {
	if !strings.EqualFold(os.Getenv("SEND_WHATSAPP"), "true") {
		return nil, nil
	}

	dbms, err := getDBMS()
	if err != nil {
		return nil, err
	}

	user, err := getDBUser()
	if err != nil {
		return nil, err
	}

	pass, err := getDBPassword()
	if err != nil {
		return nil, err
	}

	dbname, err := getDBName()
	if err != nil {
		return nil, err
	}

	meowAddress := fmt.Sprintf("user=%s password=%s dbname=%s sslmode=disable", *user, *pass, *dbname)

	container, err := sqlstore.New(*dbms, meowAddress, nil)
	if err != nil {
		return nil, err
	}

	deviceStore, err := container.GetFirstDevice()
	if err != nil {
		return nil, err
	}
	client := whatsmeow.NewClient(deviceStore, nil)
	meowWhatsapp = client

	if meowWhatsapp.Store.ID == nil {
		qrChan, _ := meowWhatsapp.GetQRChannel(context.Background())
		if err := meowWhatsapp.Connect(); err != nil {
			return nil, err
		}
		for evt := range qrChan {
			if evt.Event == "code" {
				fmt.Println("Need admin to scan the QR code for WhatsApp sending to work!")
				fmt.Println("==============   QR CODE   ==============")
				fmt.Println(evt.Code)
				if err := qrcode.WriteFile(evt.Code, qrcode.Medium, 256, "qrcode.png"); err != nil {
					return nil, fmt.Errorf("failed to generate QR code: %v", err)
				}
			} else {
				fmt.Println("Login event:", evt.Event)
			}
		}
	} else {
		if err := meowWhatsapp.Connect(); err != nil {
			return nil, err
		}
		fmt.Println("WhatsApp login success")
	}

	return meowWhatsapp, nil
}
