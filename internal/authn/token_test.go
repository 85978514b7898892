package authn

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testSession() *Session {
	return &Session{
		ID:         uuid.New(),
		IdentityID: uuid.New(),
		Email:      "pat@example.com",
		CreatedAt:  time.Now(),
	}
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)
	session := testSession()

	token, err := codec.Issue(session)
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("unexpected error verifying token: %v", err)
	}

	if claims.SessionID != session.ID.String() {
		t.Errorf("expected session ID %s, got %s", session.ID, claims.SessionID)
	}
	if claims.IdentityID() != session.IdentityID {
		t.Errorf("expected identity ID %s, got %s", session.IdentityID, claims.IdentityID())
	}
	if claims.Email != "pat@example.com" {
		t.Errorf("expected email claim, got %q", claims.Email)
	}
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)
	other := NewTokenCodec("another-secret-that-is-32-bytes!", time.Hour)

	token, err := codec.Issue(testSession())
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}

	if _, err := other.Verify(token); err == nil {
		t.Error("expected verification to fail with wrong secret")
	}
}

func TestTokenCodec_Expired(t *testing.T) {
	codec := NewTokenCodec(testSecret, -time.Minute)

	token, err := codec.Issue(testSession())
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}

	if _, err := codec.Verify(token); err == nil {
		t.Error("expected verification to fail for expired token")
	}
}

func TestTokenCodec_Garbage(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	if _, err := codec.Verify("not-a-jwt"); err == nil {
		t.Error("expected verification to fail for garbage input")
	}
}

func TestTokenCodec_TamperedPayload(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	token, err := codec.Issue(testSession())
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three token segments, got %d", len(parts))
	}
	tampered := parts[0] + ".eyJzaWQiOiJ4In0." + parts[2]

	if _, err := codec.Verify(tampered); err == nil {
		t.Error("expected verification to fail for tampered payload")
	}
}
