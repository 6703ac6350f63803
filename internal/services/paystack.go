package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"
)

// PaystackService talks to the Paystack transaction API. It covers the
// three operations this system needs: initialize a hosted checkout,
// verify a transaction, and authenticate incoming webhooks.
type PaystackService struct {
	secretKey string
	baseURL   string
	currency  string
	client    *http.Client
}

func NewPaystackService(secretKey, baseURL, currency string) *PaystackService {
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	if currency == "" {
		currency = "NGN"
	}
	return &PaystackService{
		secretKey: secretKey,
		baseURL:   baseURL,
		currency:  currency,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// PaystackError carries the gateway's own message and HTTP status so
// handlers can pass them through verbatim.
type PaystackError struct {
	StatusCode int
	Message    string
}

func (e *PaystackError) Error() string {
	return fmt.Sprintf("paystack request failed with status %d: %s", e.StatusCode, e.Message)
}

// envelope is the common wrapper Paystack puts around every response
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *PaystackService) doRequest(ctx context.Context, method, endpoint string, payload interface{}, out interface{}) error {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		bodyReader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.secretKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode >= 400 || !env.Status {
		return &PaystackError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// InitializeTransactionResult is the hosted-checkout handle returned by
// the gateway, forwarded to clients verbatim.
type InitializeTransactionResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// InitializeTransaction starts a hosted checkout. Amount is in major
// currency units and converted to the gateway's minor units here.
func (s *PaystackService) InitializeTransaction(ctx context.Context, email string, amount float64, callbackURL string, metadata map[string]interface{}) (*InitializeTransactionResult, error) {
	payload := map[string]interface{}{
		"email":        email,
		"amount":       toMinorUnits(amount),
		"currency":     s.currency,
		"callback_url": callbackURL,
	}
	if len(metadata) > 0 {
		payload["metadata"] = metadata
	}

	var result InitializeTransactionResult
	if err := s.doRequest(ctx, http.MethodPost, "/transaction/initialize", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// verifyData is the gateway's verify payload; amount arrives in minor units
type verifyData struct {
	Status    string              `json:"status"`
	Reference string              `json:"reference"`
	Amount    int64               `json:"amount"`
	PaidAt    string              `json:"paid_at"`
	Customer  map[string]any      `json:"customer"`
	Metadata  TransactionMetadata `json:"metadata"`
}

// VerifyTransactionResult reports a transaction's final status with the
// amount converted back to major units.
type VerifyTransactionResult struct {
	Status    string              `json:"status"`
	Reference string              `json:"reference"`
	Amount    float64             `json:"amount"`
	PaidAt    string              `json:"paid_at,omitempty"`
	Customer  map[string]any      `json:"customer,omitempty"`
	Metadata  TransactionMetadata `json:"metadata"`
}

// VerifyTransaction is a pure read-through to the gateway's verify
// endpoint; it mutates no local state.
func (s *PaystackService) VerifyTransaction(ctx context.Context, reference string) (*VerifyTransactionResult, error) {
	var data verifyData
	if err := s.doRequest(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &data); err != nil {
		return nil, err
	}
	return &VerifyTransactionResult{
		Status:    data.Status,
		Reference: data.Reference,
		Amount:    toMajorUnits(data.Amount),
		PaidAt:    data.PaidAt,
		Customer:  data.Customer,
		Metadata:  data.Metadata,
	}, nil
}

// VerifyWebhookSignature checks the hex HMAC-SHA512 the gateway sends
// over the exact raw body bytes. hmac.Equal keeps the comparison
// constant-time.
func (s *PaystackService) VerifyWebhookSignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(s.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// WebhookPayload is the event envelope the gateway posts to the webhook
type WebhookPayload struct {
	Event string           `json:"event"`
	Data  WebhookEventData `json:"data"`
}

type WebhookEventData struct {
	Reference string              `json:"reference"`
	Amount    int64               `json:"amount"`
	PaidAt    string              `json:"paid_at"`
	Metadata  TransactionMetadata `json:"metadata"`
}

// TransactionMetadata is the free-form metadata attached at initialize
// time. The correlating session id may be a direct field or live in the
// custom_fields list, depending on which client attached it.
type TransactionMetadata struct {
	SessionID    string                   `json:"sessionId"`
	CustomFields []TransactionCustomField `json:"custom_fields"`
}

type TransactionCustomField struct {
	DisplayName  string      `json:"display_name"`
	VariableName string      `json:"variable_name"`
	Value        interface{} `json:"value"`
}

// UnmarshalJSON tolerates the gateway sending metadata as an empty
// string instead of an object when none was attached.
func (m *TransactionMetadata) UnmarshalJSON(b []byte) error {
	type alias TransactionMetadata
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		*m = TransactionMetadata{}
		return nil
	}
	*m = TransactionMetadata(a)
	return nil
}

// CorrelationID extracts the external-session id used to tie the
// transaction back to its chat conversation, if one was attached.
func (m TransactionMetadata) CorrelationID() string {
	if m.SessionID != "" {
		return m.SessionID
	}
	for _, f := range m.CustomFields {
		if f.VariableName == "sessionId" || f.VariableName == "session_id" {
			if v, ok := f.Value.(string); ok {
				return v
			}
		}
	}
	return ""
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func toMajorUnits(minor int64) float64 {
	return float64(minor) / 100
}
