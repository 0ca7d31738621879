package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"seller-intel-engine/internal/domain"
)

func TestHTTPClient_Predict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req predictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.ProductID != "sku-1" {
			t.Errorf("ProductID = %q, want sku-1", req.ProductID)
		}
		if req.LeadTimeDays != 14 {
			t.Errorf("LeadTimeDays = %d, want 14", req.LeadTimeDays)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
			"prediction": map[string]any{
				"days_to_depletion": 5,
				"risk":              "HIGH",
				"rationale":         "strong recent velocity",
			},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	history := []domain.SalesRecord{{Date: "2026-08-20", Qty: 3}}

	pred, err := client.Predict(context.Background(), "sku-1", history, 14, nil)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if pred.DaysToDepletion == nil || *pred.DaysToDepletion != 5 {
		t.Errorf("DaysToDepletion = %v, want 5", pred.DaysToDepletion)
	}
	if pred.Risk != domain.RiskHigh {
		t.Errorf("Risk = %q, want high (normalized)", pred.Risk)
	}
}

func TestHTTPClient_Predict_FailureFlag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "model quota exceeded"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	_, err := client.Predict(context.Background(), "sku-1", nil, 14, nil)
	if !errors.Is(err, ErrPredictFailed) {
		t.Fatalf("expected ErrPredictFailed, got %v", err)
	}
}

func TestHTTPClient_Predict_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	_, err := client.Predict(context.Background(), "sku-1", nil, 14, nil)
	if !errors.Is(err, ErrPredictFailed) {
		t.Fatalf("expected ErrPredictFailed, got %v", err)
	}
}

func TestHTTPClient_Predict_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"prediction": map[string]any{"risk": "low"},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithMaxRetries(2), WithRetryDelay(time.Millisecond))
	pred, err := client.Predict(context.Background(), "sku-1", nil, 14, nil)
	if err != nil {
		t.Fatalf("Predict failed after retry: %v", err)
	}
	if pred.Risk != domain.RiskLow {
		t.Errorf("Risk = %q, want low", pred.Risk)
	}
	if calls.Load() != 2 {
		t.Errorf("server called %d times, want 2", calls.Load())
	}
}

func TestHTTPClient_Predict_NoRetryOnForecasterFailure(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "bad input"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithMaxRetries(3), WithRetryDelay(time.Millisecond))
	_, err := client.Predict(context.Background(), "sku-1", nil, 14, nil)
	if !errors.Is(err, ErrPredictFailed) {
		t.Fatalf("expected ErrPredictFailed, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("server called %d times, want 1 (no retry)", calls.Load())
	}
}

func TestCoerceDays(t *testing.T) {
	five := 5
	three := 3
	tests := []struct {
		name string
		raw  string
		want *int
	}{
		{"integer", `5`, &five},
		{"float truncates", `3.9`, &three},
		{"numeric string", `"5"`, &five},
		{"null", `null`, nil},
		{"absent", ``, nil},
		{"garbage", `"soon"`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coerceDays(json.RawMessage(tt.raw))
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("coerceDays(%q) = %d, want nil", tt.raw, *got)
			case tt.want != nil && got == nil:
				t.Errorf("coerceDays(%q) = nil, want %d", tt.raw, *tt.want)
			case tt.want != nil && got != nil && *got != *tt.want:
				t.Errorf("coerceDays(%q) = %d, want %d", tt.raw, *got, *tt.want)
			}
		})
	}
}
