package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want application/json", got)
		}
		w.Write([]byte(`{"name":"boiler"}`))
	}))
	defer srv.Close()

	c := NewClient(nil, map[string]string{"Accept": "application/json"})
	var out struct{ Name string }
	if err := c.GetJSON(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("GetJSON() error: %v", err)
	}
	if out.Name != "boiler" {
		t.Errorf("Name = %q, want boiler", out.Name)
	}
}

func TestGetJSONRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(nil, nil).WithRetry(3, time.Millisecond)
	var out struct{}
	if err := c.GetJSON(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("GetJSON() error: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestGetJSONStatus(t *testing.T) {
	tests := []struct {
		name  string
		code  int
		want  error
		calls int32
	}{
		{"not found", http.StatusNotFound, ErrNotFound, 1},
		{"bad request", http.StatusBadRequest, ErrNetwork, 1},
		{"server error", http.StatusInternalServerError, ErrNetwork, 2},
		{"rate limited", http.StatusTooManyRequests, ErrNetwork, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.code)
			}))
			defer srv.Close()

			c := NewClient(nil, nil).WithRetry(2, time.Millisecond)
			err := c.GetJSON(context.Background(), srv.URL, new(struct{}))
			if !errors.Is(err, tt.want) {
				t.Errorf("GetJSON() error = %v, want %v", err, tt.want)
			}
			if got := calls.Load(); got != tt.calls {
				t.Errorf("calls = %d, want %d", got, tt.calls)
			}
		})
	}
}

func TestRetry(t *testing.T) {
	transient := &RetryableError{Err: errors.New("flaky")}
	permanent := errors.New("broken")

	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   error
	}{
		{"success", []error{nil}, 1, nil},
		{"retry then success", []error{transient, nil}, 2, nil},
		{"permanent", []error{permanent, nil}, 1, permanent},
		{"exhausted", []error{transient, transient, transient}, 3, transient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), 3, time.Millisecond, func() error {
				err := tt.errs[calls]
				calls++
				return err
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Retry() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Hour, func() error {
		return &RetryableError{Err: errors.New("flaky")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() = %v, want context.Canceled", err)
	}
}
