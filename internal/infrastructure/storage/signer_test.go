package storage

import (
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestSignerResolveAndVerify(t *testing.T) {
	s := NewSigner("http://assets.local/", "secret")

	raw, err := s.Resolve("builds/aurora-1.0.zip", 15*time.Minute)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.HasPrefix(raw, "http://assets.local/builds/aurora-1.0.zip?") {
		t.Fatalf("unexpected url: %s", raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	exp, err := strconv.ParseInt(u.Query().Get("exp"), 10, 64)
	if err != nil {
		t.Fatalf("exp param: %v", err)
	}
	if !s.Verify("builds/aurora-1.0.zip", exp, u.Query().Get("sig")) {
		t.Fatal("signature should verify")
	}
	if s.Verify("builds/other.zip", exp, u.Query().Get("sig")) {
		t.Fatal("signature must be bound to the ref")
	}
}

func TestSignerRejectsExpired(t *testing.T) {
	s := NewSigner("http://assets.local", "secret")
	past := time.Now().Add(-time.Minute).Unix()
	if s.Verify("builds/aurora-1.0.zip", past, s.sign("builds/aurora-1.0.zip", past)) {
		t.Fatal("expired signature must not verify")
	}
}

func TestSignerEmptyRef(t *testing.T) {
	s := NewSigner("http://assets.local", "secret")
	if _, err := s.Resolve("", time.Minute); err == nil {
		t.Fatal("expected error for empty ref")
	}
}

func TestSignerDifferentSecrets(t *testing.T) {
	a := NewSigner("http://assets.local", "one")
	b := NewSigner("http://assets.local", "two")
	exp := time.Now().Add(time.Minute).Unix()
	if b.Verify("builds/aurora-1.0.zip", exp, a.sign("builds/aurora-1.0.zip", exp)) {
		t.Fatal("signature must be bound to the secret")
	}
}
