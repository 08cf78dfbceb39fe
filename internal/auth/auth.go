// Package auth signs keyword-metrics API requests with HMAC-SHA256.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"time"
)

// Header names sent with every signed request.
const (
	HeaderTimestamp = "X-Timestamp"
	HeaderAPIKey    = "X-API-KEY"
	HeaderCustomer  = "X-Customer"
	HeaderSignature = "X-Signature"

	ContentType = "application/json; charset=UTF-8"
)

// Credentials holds the keys used to sign requests.
type Credentials struct {
	APIKey     string // access license
	SecretKey  string // HMAC key
	CustomerID string

	now func() time.Time
}

// NewCredentials validates and returns credentials.
func NewCredentials(apiKey, secretKey, customerID string) (*Credentials, error) {
	if apiKey == "" {
		return nil, errors.New("API key is required")
	}
	if secretKey == "" {
		return nil, errors.New("secret key is required")
	}
	if customerID == "" {
		return nil, errors.New("customer ID is required")
	}
	return &Credentials{
		APIKey:     apiKey,
		SecretKey:  secretKey,
		CustomerID: customerID,
	}, nil
}

// Sign returns the base64 HMAC-SHA256 of "{timestamp}.{method}.{path}".
func (c *Credentials) Sign(timestampMs int64, method, path string) string {
	message := strconv.FormatInt(timestampMs, 10) + "." + method + "." + path

	mac := hmac.New(sha256.New, []byte(c.SecretKey))
	mac.Write([]byte(message))

	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// SignRequest generates the full header set for a request. A fresh
// millisecond timestamp is taken on every call.
func (c *Credentials) SignRequest(method, path string) map[string]string {
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	timestampMs := now().UnixMilli()

	return map[string]string{
		"Content-Type":  ContentType,
		HeaderTimestamp: strconv.FormatInt(timestampMs, 10),
		HeaderAPIKey:    c.APIKey,
		HeaderCustomer:  c.CustomerID,
		HeaderSignature: c.Sign(timestampMs, method, path),
	}
}
