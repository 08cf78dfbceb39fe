package auth

import (
	"testing"
	"time"
)

func TestCredentials_Sign(t *testing.T) {
	creds := &Credentials{APIKey: "key", SecretKey: "test-secret", CustomerID: "123"}

	got := creds.Sign(1700000000000, "GET", "/keywordstool")
	want := "pLnZJtUUxfdXitHXWo/EvKzookF5hlb/Rs2Fuw1W4js="
	if got != want {
		t.Errorf("Sign() = %q, want %q", got, want)
	}

	// Same inputs always give the same signature.
	if again := creds.Sign(1700000000000, "GET", "/keywordstool"); again != got {
		t.Errorf("Sign() not deterministic: %q vs %q", again, got)
	}

	if other := creds.Sign(1700000000001, "GET", "/keywordstool"); other == got {
		t.Error("Sign() unchanged after timestamp changed")
	}
}

func TestCredentials_SignRequest(t *testing.T) {
	ts := time.UnixMilli(1700000000000)
	creds := &Credentials{
		APIKey:     "access-license",
		SecretKey:  "test-secret",
		CustomerID: "987654",
		now:        func() time.Time { return ts },
	}

	headers := creds.SignRequest("GET", "/keywordstool")

	want := map[string]string{
		"Content-Type":  "application/json; charset=UTF-8",
		HeaderTimestamp: "1700000000000",
		HeaderAPIKey:    "access-license",
		HeaderCustomer:  "987654",
		HeaderSignature: "pLnZJtUUxfdXitHXWo/EvKzookF5hlb/Rs2Fuw1W4js=",
	}
	for k, v := range want {
		if headers[k] != v {
			t.Errorf("%s = %q, want %q", k, headers[k], v)
		}
	}
}

func TestCredentials_SignRequestFreshTimestamp(t *testing.T) {
	calls := int64(0)
	creds := &Credentials{
		APIKey:     "k",
		SecretKey:  "s",
		CustomerID: "c",
		now: func() time.Time {
			calls++
			return time.UnixMilli(1700000000000 + calls)
		},
	}

	first := creds.SignRequest("GET", "/keywordstool")
	second := creds.SignRequest("GET", "/keywordstool")

	if first[HeaderTimestamp] == second[HeaderTimestamp] {
		t.Error("timestamp reused across calls")
	}
	if first[HeaderSignature] == second[HeaderSignature] {
		t.Error("signature reused across calls")
	}
}

func TestNewCredentials(t *testing.T) {
	tests := []struct {
		name                   string
		apiKey, secret, custID string
		wantErr                string
	}{
		{"valid", "k", "s", "c", ""},
		{"missing key", "", "s", "c", "API key is required"},
		{"missing secret", "k", "", "c", "secret key is required"},
		{"missing customer", "k", "s", "", "customer ID is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCredentials(tt.apiKey, tt.secret, tt.custID)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
