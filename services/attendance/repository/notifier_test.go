package repository

import (
	"attendance/config"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"international passes through", "+923001234567", "+923001234567"},
		{"local trunk prefix", "03001234567", "+923001234567"},
		{"country code without plus", "923001234567", "+923001234567"},
		{"bare ten digit local", "3001234567", "+923001234567"},
		{"anything else gets a plus", "13105551234", "+13105551234"},
		{"whitespace trimmed", "  +923001234567 ", "+923001234567"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.raw, "92"))
		})
	}
}

func TestNormalizePhoneOtherCountry(t *testing.T) {
	assert.Equal(t, "+62811234567", NormalizePhone("0811234567", "62"))
}

func TestSendTextDisabledGateway(t *testing.T) {
	nr := NewNotifierRepository(&config.SMSConfig{Enabled: false}, nil, nil, "", nil)

	result := nr.SendText(context.Background(), "03001234567", "hello")
	assert.False(t, result.Success)
	assert.Equal(t, "SMS not configured", result.Error)
}

func TestSendTextNilConfig(t *testing.T) {
	nr := NewNotifierRepository(nil, nil, nil, "", nil)

	result := nr.SendText(context.Background(), "03001234567", "hello")
	assert.False(t, result.Success)
}

func TestSendEmailNotConfigured(t *testing.T) {
	nr := NewNotifierRepository(nil, nil, nil, "", nil)

	result := nr.SendEmail(context.Background(), "someone@example.edu", "subject", "body")
	assert.False(t, result.Success)
	assert.Equal(t, "Emailer not configured", result.Error)
}
