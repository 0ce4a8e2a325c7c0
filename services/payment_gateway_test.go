package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func testGateway(srv *httptest.Server) *PaymentGatewayService {
	return &PaymentGatewayService{
		baseURL:   srv.URL,
		secretKey: "test-secret",
		client:    srv.Client(),
	}
}

func TestInitiateSendsKeyAuthAndParsesPidx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/epayment/initiate/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Key test-secret" {
			t.Errorf("Authorization = %q", got)
		}

		var req InitiatePaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Amount != 150000 {
			t.Errorf("amount = %d", req.Amount)
		}

		json.NewEncoder(w).Encode(InitiatePaymentResponse{
			Pidx:       "Hh4sdfEXAMPLE",
			PaymentURL: "https://test.example/pay/Hh4sdfEXAMPLE",
		})
	}))
	defer srv.Close()

	resp, err := testGateway(srv).Initiate(InitiatePaymentRequest{
		ReturnURL:         "https://app.example/return",
		Amount:            150000,
		PurchaseOrderID:   "order_1_abc",
		PurchaseOrderName: "Two bedroom flat",
	})
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if resp.Pidx != "Hh4sdfEXAMPLE" {
		t.Fatalf("pidx = %q", resp.Pidx)
	}
	if resp.PaymentURL == "" {
		t.Fatal("expected a payment URL")
	}
}

func TestInitiateRejectsMissingPidx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(InitiatePaymentResponse{})
	}))
	defer srv.Close()

	if _, err := testGateway(srv).Initiate(InitiatePaymentRequest{Amount: 1000}); err == nil {
		t.Fatal("expected error when the gateway returns no pidx")
	}
}

func TestInitiateSurfacesGatewayErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Amount should be greater than Rs. 10"}`))
	}))
	defer srv.Close()

	if _, err := testGateway(srv).Initiate(InitiatePaymentRequest{Amount: 1}); err == nil {
		t.Fatal("expected error on a 400 from the gateway")
	}
}

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/epayment/lookup/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["pidx"] != "Hh4sdfEXAMPLE" {
			t.Errorf("pidx = %q", req["pidx"])
		}

		json.NewEncoder(w).Encode(PaymentLookupResponse{
			Pidx:          "Hh4sdfEXAMPLE",
			TotalAmount:   150000,
			Status:        "Completed",
			TransactionID: "txn123",
			Fee:           4500,
		})
	}))
	defer srv.Close()

	resp, err := testGateway(srv).Lookup("Hh4sdfEXAMPLE")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if resp.Status != "Completed" || resp.TransactionID != "txn123" {
		t.Fatalf("unexpected lookup response: %+v", resp)
	}
}

func TestVerifyCallbackToken(t *testing.T) {
	s := &PaymentGatewayService{secretKey: "test-secret"}

	claims := CallbackClaims{
		Pidx:          "Hh4sdfEXAMPLE",
		TransactionID: "txn123",
		Status:        "Completed",
		TotalAmount:   150000,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	got, err := s.VerifyCallbackToken(signed)
	if err != nil {
		t.Fatalf("VerifyCallbackToken: %v", err)
	}
	if got.Pidx != "Hh4sdfEXAMPLE" || got.Status != "Completed" {
		t.Fatalf("unexpected claims: %+v", got)
	}
}

func TestVerifyCallbackTokenRejectsWrongKey(t *testing.T) {
	s := &PaymentGatewayService{secretKey: "test-secret"}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, CallbackClaims{Pidx: "x"}).
		SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := s.VerifyCallbackToken(signed); err == nil {
		t.Fatal("expected signature verification to fail")
	}
}
