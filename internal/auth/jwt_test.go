package auth

import (
	"testing"
	"time"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := New("test-secret", time.Hour)

	token, err := m.Issue("user-42", "user@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	id, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if id.UserID != "user-42" {
		t.Errorf("UserID = %q, want user-42", id.UserID)
	}
	if id.Email != "user@example.com" {
		t.Errorf("Email = %q, want user@example.com", id.Email)
	}
}

func TestVerifyRejections(t *testing.T) {
	m := New("test-secret", time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		other := New("other-secret", time.Hour)
		token, err := other.Issue("user-42", "")
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		if _, err := m.Verify(token); err == nil {
			t.Error("Verify accepted a token signed with another secret")
		}
	})

	t.Run("expired", func(t *testing.T) {
		expired := New("test-secret", -time.Minute)
		token, err := expired.Issue("user-42", "")
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		if _, err := m.Verify(token); err == nil {
			t.Error("Verify accepted an expired token")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := m.Verify("not.a.token"); err == nil {
			t.Error("Verify accepted garbage input")
		}
	})
}
