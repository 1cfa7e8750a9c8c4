package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"treasury_checker/internal/domain/entity"
)

func TestFetchReturnsBodyAndInjectsHeaders(t *testing.T) {
	var gotKey, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"xch":1.5}`))
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, nil)
	resp, err := f.Fetch(context.Background(), Request{
		Provider: "test",
		URL:      srv.URL + "/balance",
		Headers:  map[string]string{"x-api-key": "secret"},
	})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if !resp.OK() || string(resp.Body) != `{"xch":1.5}` {
		t.Fatalf("unexpected response: %d %q", resp.StatusCode, resp.Body)
	}
	if gotKey != "secret" {
		t.Fatalf("api key header not forwarded, got %q", gotKey)
	}
	if gotUA == "" {
		t.Fatalf("default user agent not injected")
	}
}

func TestFetchPassesNon2xxThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	resp, err := NewFetcher(time.Second, nil).Fetch(context.Background(), Request{URL: srv.URL})
	if err != nil {
		t.Fatalf("non-2xx must not be an error, got %v", err)
	}
	if resp.StatusCode != http.StatusTooManyRequests || resp.OK() {
		t.Fatalf("expected 429 response, got %d", resp.StatusCode)
	}
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewFetcher(time.Second, nil).Fetch(context.Background(), Request{URL: srv.URL, Timeout: 50 * time.Millisecond})
	if kind := entity.KindOf(err); kind != entity.FailureTimeout {
		t.Fatalf("expected timeout, got %v (%v)", kind, err)
	}
}

func TestFetchNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewFetcher(time.Second, nil).Fetch(context.Background(), Request{URL: url})
	if kind := entity.KindOf(err); kind != entity.FailureNetwork {
		t.Fatalf("expected network error, got %v (%v)", kind, err)
	}
}

func TestFetchHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFetcher(time.Second, nil).Fetch(ctx, Request{URL: "http://127.0.0.1:1"})
	if err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}

func TestFetchReturnsWhenContextCancelledMidCall(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	start := time.Now()
	_, err := NewFetcher(time.Second, nil).Fetch(ctx, Request{URL: srv.URL, Timeout: 10 * time.Second})
	if kind := entity.KindOf(err); kind != entity.FailureNetwork {
		t.Fatalf("expected network failure on cancel, got %v (%v)", kind, err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("fetch kept running %v after cancel", elapsed)
	}
}
