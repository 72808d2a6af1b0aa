// Package gateway talks to the Razorpay orders API and verifies payment signatures.
package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/amarsreevishnu/greennestPlants/config"
)

// Order is a gateway-side order the customer pays against.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Gateway is the part of a payment provider checkout depends on.
type Gateway interface {
	CreateOrder(ctx context.Context, amountPaise int64, receipt string) (Order, error)
	VerifyPayment(orderID, paymentID, signature string) bool
	KeyID() string
}

// Razorpay implements Gateway over the REST API with basic auth.
type Razorpay struct {
	keyID     string
	keySecret string
	apiURL    string
	currency  string
	client    *http.Client
}

func NewRazorpay(cfg config.RazorpayConfig) *Razorpay {
	return &Razorpay{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		apiURL:    strings.TrimRight(cfg.APIURL, "/"),
		currency:  cfg.Currency,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *Razorpay) KeyID() string { return r.keyID }

type apiError struct {
	Error *struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error,omitempty"`
}

// CreateOrder registers an order of amountPaise with Razorpay.
func (r *Razorpay) CreateOrder(ctx context.Context, amountPaise int64, receipt string) (Order, error) {
	payload := map[string]interface{}{
		"amount":          amountPaise,
		"currency":        r.currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return Order{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.apiURL+"/orders", bytes.NewBuffer(jsonData))
	if err != nil {
		return Order{}, err
	}
	req.SetBasicAuth(r.keyID, r.keySecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return Order{}, fmt.Errorf("failed to reach Razorpay: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Order{}, fmt.Errorf("read Razorpay response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != nil {
			return Order{}, fmt.Errorf("razorpay error (%d): %s", resp.StatusCode, apiErr.Error.Description)
		}
		return Order{}, fmt.Errorf("razorpay API error (%d): %s", resp.StatusCode, string(body))
	}

	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return Order{}, fmt.Errorf("failed to parse Razorpay response: %w", err)
	}
	if order.ID == "" {
		return Order{}, fmt.Errorf("razorpay returned an order without id")
	}
	return order, nil
}

// VerifyPayment checks the checkout signature with the key secret.
func (r *Razorpay) VerifyPayment(orderID, paymentID, signature string) bool {
	return Verify(r.keySecret, orderID+"|"+paymentID, signature)
}

// Sign returns the hex HMAC-SHA256 of message under secret.
func Sign(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compares signature against Sign(secret, message) in constant time.
func Verify(secret, message, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected := Sign(secret, message)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}
