package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// PaymentGatewayService is the client for the external Khalti-style payment
// gateway. The contract is three calls: initiate a payment (returns a pidx
// handle plus a redirect URL), look up a payment's state by pidx, and verify
// the signed callback the gateway posts after the customer pays.
type PaymentGatewayService struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewPaymentGatewayService() *PaymentGatewayService {
	baseURL := os.Getenv("KHALTI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://a.khalti.com/api/v2"
	}
	return &PaymentGatewayService{
		baseURL:   baseURL,
		secretKey: os.Getenv("KHALTI_SECRET_KEY"),
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type InitiatePaymentRequest struct {
	ReturnURL         string       `json:"return_url"`
	WebsiteURL        string       `json:"website_url"`
	Amount            int64        `json:"amount"` // paisa
	PurchaseOrderID   string       `json:"purchase_order_id"`
	PurchaseOrderName string       `json:"purchase_order_name"`
	CustomerInfo      CustomerInfo `json:"customer_info"`
}

type InitiatePaymentResponse struct {
	Pidx       string `json:"pidx"`
	PaymentURL string `json:"payment_url"`
	ExpiresAt  string `json:"expires_at"`
}

type PaymentLookupResponse struct {
	Pidx          string `json:"pidx"`
	TotalAmount   int64  `json:"total_amount"`
	Status        string `json:"status"` // Completed, Pending, Initiated, Refunded, Expired, User canceled
	TransactionID string `json:"transaction_id"`
	Fee           int64  `json:"fee"`
	Refunded      bool   `json:"refunded"`
}

func (s *PaymentGatewayService) post(path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+s.secretKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(data))
	}

	return json.Unmarshal(data, out)
}

// Initiate registers a payment with the gateway and returns the redirect
// handle. The caller persists the pidx before handing the URL to the client.
func (s *PaymentGatewayService) Initiate(req InitiatePaymentRequest) (*InitiatePaymentResponse, error) {
	var resp InitiatePaymentResponse
	if err := s.post("/epayment/initiate/", req, &resp); err != nil {
		return nil, err
	}
	if resp.Pidx == "" {
		return nil, fmt.Errorf("gateway returned no pidx")
	}
	return &resp, nil
}

// Lookup fetches the authoritative state of a payment. Verification after a
// customer returns from the gateway always goes through here; the redirect
// query parameters alone are never trusted.
func (s *PaymentGatewayService) Lookup(pidx string) (*PaymentLookupResponse, error) {
	var resp PaymentLookupResponse
	if err := s.post("/epayment/lookup/", map[string]string{"pidx": pidx}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CallbackClaims is the payload of the gateway's signed webhook token.
type CallbackClaims struct {
	Pidx          string `json:"pidx"`
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	TotalAmount   int64  `json:"total_amount"`
	jwt.RegisteredClaims
}

// VerifyCallbackToken validates the HS256 signature on a gateway webhook.
func (s *PaymentGatewayService) VerifyCallbackToken(tokenStr string) (*CallbackClaims, error) {
	claims := &CallbackClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid callback token")
	}
	return claims, nil
}
