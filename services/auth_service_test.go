package services

import (
	"errors"
	"testing"
	"time"

	"wellness/models"
)

func TestVerificationValid(t *testing.T) {
	issued := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	v := &models.Verification{VerificationCode: "123456", CreatedAt: issued}

	tests := []struct {
		name string
		code string
		now  time.Time
		ok   bool
	}{
		{"fresh", "123456", issued.Add(time.Minute), true},
		{"at the limit", "123456", issued.Add(VerificationTTL), true},
		{"expired", "123456", issued.Add(VerificationTTL + time.Second), false},
		{"wrong code", "654321", issued.Add(time.Minute), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := verificationValid(v, tt.code, tt.now)
			if tt.ok && err != nil {
				t.Errorf("unexpected error %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidVerification) {
				t.Errorf("err = %v, want ErrInvalidVerification", err)
			}
		})
	}
}

func TestChannels(t *testing.T) {
	email, phone, empty := "a@example.com", "+15550100", ""

	got := channels(&models.User{Email: &email, PhoneNumber: &phone})
	if got[models.VerificationEmail] != email || got[models.VerificationSMS] != phone {
		t.Errorf("channels = %v", got)
	}
	if got := channels(&models.User{Email: &email, PhoneNumber: &empty}); len(got) != 1 {
		t.Errorf("empty phone should be skipped: %v", got)
	}
	if got := channels(&models.User{}); len(got) != 0 {
		t.Errorf("channels = %v", got)
	}
}

func TestValidChannel(t *testing.T) {
	for _, ok := range []string{models.VerificationEmail, models.VerificationSMS} {
		if err := validChannel(ok); err != nil {
			t.Errorf("validChannel(%q) = %v", ok, err)
		}
	}
	var ie *InputError
	if err := validChannel("pigeon"); !errors.As(err, &ie) {
		t.Errorf("err = %v, want InputError", err)
	}
}
