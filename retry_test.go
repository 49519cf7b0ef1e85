package semaphore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func fastRetry(maxRetries int) *RetryConfig {
	return &RetryConfig{
		MaxRetries:     maxRetries,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestWithRetry(t *testing.T) {
	t.Run("applies retry config", func(t *testing.T) {
		client, err := NewClient("http://localhost:3000", WithRetry(fastRetry(3)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.retryConfig == nil || client.retryConfig.MaxRetries != 3 {
			t.Fatalf("retryConfig = %+v", client.retryConfig)
		}
	})

	t.Run("retry is off by default", func(t *testing.T) {
		client, err := NewClient("http://localhost:3000")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.retryConfig != nil {
			t.Error("retryConfig should be nil")
		}
	})
}

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()
	if config.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", config.MaxRetries)
	}
	if config.InitialBackoff != 100*time.Millisecond {
		t.Errorf("InitialBackoff = %v, want 100ms", config.InitialBackoff)
	}
	if config.MaxBackoff != 5*time.Second {
		t.Errorf("MaxBackoff = %v, want 5s", config.MaxBackoff)
	}
	if config.Multiplier != 2.0 {
		t.Errorf("Multiplier = %f, want 2.0", config.Multiplier)
	}
}

func TestClient_RetryOnServerError(t *testing.T) {
	api := newFakeAPI(t).onSequence(http.MethodGet, "/projects",
		fakeResponse{status: http.StatusServiceUnavailable},
		fakeResponse{status: http.StatusBadGateway},
		fakeResponse{status: http.StatusOK, body: `[{"id":1,"name":"infra"}]`},
	)

	projects, err := api.client(WithRetry(fastRetry(3))).ListProjects(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.count() != 3 {
		t.Errorf("requests = %d, want 3", api.count())
	}
	if len(projects) != 1 {
		t.Errorf("len(projects) = %d, want 1", len(projects))
	}
}

func TestClient_RetryOn429(t *testing.T) {
	api := newFakeAPI(t).on(http.MethodGet, "/projects", http.StatusTooManyRequests)

	_, err := api.client(WithRetry(fastRetry(2))).ListProjects(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("err = %v, want 429 APIError", err)
	}
	if api.count() != 3 {
		t.Errorf("requests = %d, want 3 (1 + 2 retries)", api.count())
	}
}

func TestClient_NoRetryOnClientError(t *testing.T) {
	api := newFakeAPI(t).on(http.MethodGet, "/projects", http.StatusBadRequest, `{"error":"bad"}`)

	_, err := api.client(WithRetry(fastRetry(3))).ListProjects(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400 APIError", err)
	}
	if api.count() != 1 {
		t.Errorf("requests = %d, want 1", api.count())
	}
}

func TestClient_NoRetryWithoutConfig(t *testing.T) {
	api := newFakeAPI(t).on(http.MethodGet, "/projects", http.StatusInternalServerError)

	_, err := api.client().ListProjects(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if api.count() != 1 {
		t.Errorf("requests = %d, want 1", api.count())
	}
}

func TestClient_RetryStopsOnContextCancel(t *testing.T) {
	api := newFakeAPI(t).on(http.MethodGet, "/projects", http.StatusInternalServerError)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	config := &RetryConfig{MaxRetries: 100, InitialBackoff: 20 * time.Millisecond, MaxBackoff: 20 * time.Millisecond, Multiplier: 1}
	start := time.Now()
	_, err := api.client(WithRetry(config)).ListProjects(ctx)
	if err == nil {
		t.Fatal("expected error")
	}
	if time.Since(start) > 2*time.Second {
		t.Errorf("retry did not stop on context cancel")
	}
	if api.count() >= 100 {
		t.Errorf("requests = %d, retry ignored the context", api.count())
	}
}

func TestIsRetryable(t *testing.T) {
	client := &Client{}
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"not authenticated", ErrNotAuthenticated, false},
		{"429", &APIError{StatusCode: 429}, true},
		{"500", &APIError{StatusCode: 500}, true},
		{"503 wrapped", fmt.Errorf("wrapped: %w", &APIError{StatusCode: 503}), true},
		{"400", &APIError{StatusCode: 400}, false},
		{"404", &APIError{StatusCode: 404}, false},
		{"timeout", &TransportError{Err: timeoutError{}}, true},
		{"decode", &DecodeError{Err: errors.New("bad")}, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := client.isRetryable(tt.err); got != tt.want {
				t.Errorf("isRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

// timeoutError is a net.Error style timeout.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }
