package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

type memCodeStore struct {
	codes    map[string][]byte
	attempts map[string]int
}

func newMemCodeStore() *memCodeStore {
	return &memCodeStore{codes: make(map[string][]byte), attempts: make(map[string]int)}
}

func (m *memCodeStore) Save(_ context.Context, key string, hash []byte, _ time.Duration) error {
	m.codes[key] = hash
	return nil
}

func (m *memCodeStore) Get(_ context.Context, key string) ([]byte, error) {
	hash, ok := m.codes[key]
	if !ok {
		return nil, ErrCodeNotFound
	}
	return hash, nil
}

func (m *memCodeStore) Delete(_ context.Context, key string) error {
	delete(m.codes, key)
	delete(m.attempts, key)
	return nil
}

func (m *memCodeStore) IncrAttempts(_ context.Context, key string, _ time.Duration) (int, error) {
	m.attempts[key]++
	return m.attempts[key], nil
}

func TestOTPIssueAndVerify(t *testing.T) {
	store := newMemCodeStore()
	svc := NewOTPService(store, 10*time.Minute, 5)
	ctx := context.Background()

	code, err := svc.Issue(ctx, ChannelEmail, "night@owl.to")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", code)
	}

	if err := svc.Verify(ctx, ChannelEmail, "night@owl.to", code); err != nil {
		t.Fatalf("verify: %v", err)
	}

	// Codes are single use.
	if err := svc.Verify(ctx, ChannelEmail, "night@owl.to", code); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("expected consumed code, got %v", err)
	}
}

func TestOTPVerifyWrongCode(t *testing.T) {
	store := newMemCodeStore()
	svc := NewOTPService(store, 10*time.Minute, 5)
	ctx := context.Background()

	if _, err := svc.Issue(ctx, ChannelPhone, "+14165550199"); err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := svc.Verify(ctx, ChannelPhone, "+14165550199", "000000"); !errors.Is(err, ErrCodeInvalid) {
		t.Fatalf("expected ErrCodeInvalid, got %v", err)
	}
}

func TestOTPBurnsAfterMaxAttempts(t *testing.T) {
	store := newMemCodeStore()
	svc := NewOTPService(store, 10*time.Minute, 3)
	ctx := context.Background()

	code, err := svc.Issue(ctx, ChannelEmail, "night@owl.to")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := svc.Verify(ctx, ChannelEmail, "night@owl.to", "999999"); !errors.Is(err, ErrCodeInvalid) {
			t.Fatalf("attempt %d: expected ErrCodeInvalid, got %v", i+1, err)
		}
	}

	// Fourth attempt exceeds the cap even with the right code.
	if err := svc.Verify(ctx, ChannelEmail, "night@owl.to", code); !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}

	// And the code is gone for later attempts too.
	if err := svc.Verify(ctx, ChannelEmail, "night@owl.to", code); err == nil {
		t.Fatalf("expected burned code to stay unusable")
	}
}

func TestOTPReissueReplacesCode(t *testing.T) {
	store := newMemCodeStore()
	svc := NewOTPService(store, 10*time.Minute, 5)
	ctx := context.Background()

	first, err := svc.Issue(ctx, ChannelEmail, "night@owl.to")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	second, err := svc.Issue(ctx, ChannelEmail, "night@owl.to")
	if err != nil {
		t.Fatalf("reissue: %v", err)
	}

	if first != second {
		if err := svc.Verify(ctx, ChannelEmail, "night@owl.to", first); err == nil {
			t.Fatalf("expected first code to be invalidated by reissue")
		}
	}
	if err := svc.Verify(ctx, ChannelEmail, "night@owl.to", second); err != nil {
		t.Fatalf("second code should verify: %v", err)
	}
}
