package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGet_Basic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Firefox") {
			t.Errorf("expected a browser user agent, got %q", ua)
		}
		w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	body, err := NewClient(nil).Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(body) != "<html>ok</html>" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestGet_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := NewClient(nil).Get(context.Background(), srv.URL); err == nil {
		t.Fatal("expected an error for status 404")
	}
}

func TestGet_ChallengeWithoutSolver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("<html><title>Just a moment...</title></html>"))
	}))
	defer srv.Close()

	_, err := NewClient(nil).Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected an error when a challenge appears and no solver is configured")
	}
	if !strings.Contains(err.Error(), "challenge") {
		t.Fatalf("error should mention the challenge: %v", err)
	}
}

func TestDetectChallenge(t *testing.T) {
	if got := detectChallenge(403, []byte("Just a moment...")); got == "" {
		t.Fatal("expected a trigger for a Cloudflare interstitial")
	}
	if got := detectChallenge(200, []byte("Just a moment...")); got != "" {
		t.Fatalf("a 200 is never a challenge, got trigger %q", got)
	}
	if got := detectChallenge(403, []byte("listing was removed")); got != "" {
		t.Fatalf("a plain 403 is not a challenge, got trigger %q", got)
	}
}
