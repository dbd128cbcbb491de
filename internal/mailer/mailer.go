package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
)

const DefaultBaseURL = "https://api.resend.com"

type Message struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type Mailer struct {
	apiKey   string
	sender   string
	baseURL  string
	mockMode bool
	client   *http.Client
}

func New() *Mailer {
	return &Mailer{
		apiKey:   os.Getenv("EMAIL_API_KEY"),
		sender:   os.Getenv("EMAIL_SENDER"),
		baseURL:  DefaultBaseURL,
		mockMode: os.Getenv("EMAIL_MOCK_MODE") == "true",
		client:   &http.Client{},
	}
}

func NewWithBaseURL(apiKey, sender, baseURL string) *Mailer {
	return &Mailer{
		apiKey:  apiKey,
		sender:  sender,
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

func (m *Mailer) Send(msg Message) error {
	if m.mockMode {
		slog.Info("mock email send",
			"to", strings.Join(msg.To, ","),
			"subject", msg.Subject)
		return nil
	}

	requestBody := map[string]interface{}{
		"from":    m.sender,
		"to":      msg.To,
		"subject": msg.Subject,
		"html":    msg.HTML,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return fmt.Errorf("mailer: encode request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, m.baseURL+"/emails", bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("mailer: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+m.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("mailer: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mailer: provider returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// PaymentConfirmation is the email a customer receives after the gateway
// confirms their payment.
func PaymentConfirmation(customerName, reference string, amount int, recipeNames []string) Message {
	items := ""
	for _, name := range recipeNames {
		items += fmt.Sprintf("<li>%s</li>", name)
	}

	html := fmt.Sprintf(
		"<h2>Thank you for your order, %s!</h2>"+
			"<p>Your payment of &#8358;%.2f has been confirmed.</p>"+
			"<p>Payment reference: <strong>%s</strong></p>"+
			"<ul>%s</ul>"+
			"<p>Your meal kits will be delivered within 2-3 days.</p>",
		customerName, float64(amount)/100, reference, items,
	)

	return Message{
		Subject: "Your Nourish Box order is confirmed",
		HTML:    html,
	}
}

// AdminOrderAlert notifies the admin team that a paid order came in.
func AdminOrderAlert(customerName, customerEmail, reference string, amount, ordersCreated, ordersFailed int) Message {
	html := fmt.Sprintf(
		"<h2>New paid order</h2>"+
			"<p>%s (%s) paid &#8358;%.2f.</p>"+
			"<p>Reference: <strong>%s</strong></p>"+
			"<p>Orders created: %d, failed: %d.</p>",
		customerName, customerEmail, float64(amount)/100, reference, ordersCreated, ordersFailed,
	)

	return Message{
		Subject: fmt.Sprintf("New order from %s", customerName),
		HTML:    html,
	}
}
