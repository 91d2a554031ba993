package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMailerSend(t *testing.T) {
	var got mailPayload
	var auth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()

	m := NewMailer(ts.URL, "key-123", "alerts@dropalert.test")
	err := m.Send(context.Background(), "user@example.com", "subject", "<p>hi</p>")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if auth != "Bearer key-123" {
		t.Errorf("Authorization = %q", auth)
	}
	if got.From != "alerts@dropalert.test" || got.To != "user@example.com" {
		t.Errorf("payload = %+v", got)
	}
	if got.Subject != "subject" || got.HTML != "<p>hi</p>" {
		t.Errorf("payload = %+v", got)
	}
}

func TestMailerSendProviderError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	m := NewMailer(ts.URL, "key", "from@x")
	if err := m.Send(context.Background(), "to@x", "s", "b"); err == nil {
		t.Error("Send succeeded despite 502 from provider")
	}
}
