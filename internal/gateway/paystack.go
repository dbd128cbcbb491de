package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const DefaultBaseURL = "https://api.paystack.co"

// Error is a failure reported by the gateway itself, carrying the gateway's
// own message when one was readable from the response body.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("paystack: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("paystack: request failed with status %d", e.StatusCode)
}

type PaystackClient struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewPaystackClient(secretKey string) *PaystackClient {
	return NewPaystackClientWithBaseURL(secretKey, DefaultBaseURL)
}

// NewPaystackClientWithBaseURL exists so tests can point the client at a
// local stub server.
func NewPaystackClientWithBaseURL(secretKey, baseURL string) *PaystackClient {
	return &PaystackClient{
		secretKey: secretKey,
		baseURL:   baseURL,
		client:    &http.Client{},
	}
}

type Customer struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type VerifyData struct {
	Status    string   `json:"status"`
	Reference string   `json:"reference"`
	Amount    int      `json:"amount"`
	Channel   string   `json:"channel"`
	PaidAt    string   `json:"paid_at"`
	Customer  Customer `json:"customer"`
}

type VerifyResponse struct {
	Status  bool       `json:"status"`
	Message string     `json:"message"`
	Data    VerifyData `json:"data"`
}

type InitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type InitializeResponse struct {
	Status  bool           `json:"status"`
	Message string         `json:"message"`
	Data    InitializeData `json:"data"`
}

// VerifyTransaction asks the gateway for the settled state of a payment
// reference. A non-2xx or unreadable response is returned as *Error; the
// caller decides what a "successful" payment looks like from the parsed body.
func (p *PaystackClient) VerifyTransaction(reference string) (*VerifyResponse, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", p.baseURL, reference)

	httpReq, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("paystack: build verify request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.secretKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("paystack: verify request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("paystack: read verify response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		gatewayErr := &Error{StatusCode: resp.StatusCode}
		var parsed VerifyResponse
		if json.Unmarshal(body, &parsed) == nil {
			gatewayErr.Message = parsed.Message
		}
		return nil, gatewayErr
	}

	var parsed VerifyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("paystack: parse verify response: %w", err)
	}

	return &parsed, nil
}

// InitializeTransaction registers a pending payment with the gateway and
// returns the hosted checkout URL the customer is redirected to.
func (p *PaystackClient) InitializeTransaction(email string, amount int, reference string) (*InitializeData, error) {
	requestBody := map[string]interface{}{
		"email":     email,
		"amount":    amount,
		"reference": reference,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("paystack: encode initialize request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, p.baseURL+"/transaction/initialize", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("paystack: build initialize request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("paystack: initialize request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("paystack: read initialize response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		gatewayErr := &Error{StatusCode: resp.StatusCode}
		var parsed InitializeResponse
		if json.Unmarshal(body, &parsed) == nil {
			gatewayErr.Message = parsed.Message
		}
		return nil, gatewayErr
	}

	var parsed InitializeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("paystack: parse initialize response: %w", err)
	}
	if !parsed.Status {
		return nil, &Error{StatusCode: resp.StatusCode, Message: parsed.Message}
	}

	return &parsed.Data, nil
}
