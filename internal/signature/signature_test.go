package signature

import (
	"strings"
	"testing"
)

func TestVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("app-secret")
	body := []byte(`{"object":"whatsapp_business_account"}`)

	header := Sign(secret, body)
	if !strings.HasPrefix(header, "sha256=") {
		t.Fatalf("unexpected header format: %s", header)
	}
	if !Verify(secret, body, header) {
		t.Fatal("expected signature to verify")
	}
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	t.Parallel()

	secret := []byte("app-secret")
	body := []byte(`{"object":"whatsapp_business_account"}`)
	header := Sign(secret, body)

	tampered := []byte(`{"object":"whatsapp_business_account" }`)
	if Verify(secret, tampered, header) {
		t.Fatal("expected tampered body to fail verification")
	}
}

func TestVerifyRejectsMalformedHeaders(t *testing.T) {
	t.Parallel()

	secret := []byte("app-secret")
	body := []byte("payload")
	valid := Sign(secret, body)

	cases := []struct {
		name   string
		header string
	}{
		{name: "empty", header: ""},
		{name: "missing prefix", header: strings.TrimPrefix(valid, "sha256=")},
		{name: "wrong prefix", header: "sha1=" + strings.TrimPrefix(valid, "sha256=")},
		{name: "not hex", header: "sha256=zzzz"},
		{name: "odd length hex", header: "sha256=abc"},
		{name: "truncated digest", header: valid[:len(valid)-2]},
		{name: "extended digest", header: valid + "ab"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if Verify(secret, body, tc.header) {
				t.Fatalf("expected %q to fail verification", tc.header)
			}
		})
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	body := []byte("payload")
	header := Sign([]byte("secret-a"), body)
	if Verify([]byte("secret-b"), body, header) {
		t.Fatal("expected wrong secret to fail verification")
	}
}

func TestVerifyEmptySecretFailsClosed(t *testing.T) {
	t.Parallel()

	body := []byte("payload")
	header := Sign([]byte("secret"), body)
	if Verify(nil, body, header) {
		t.Fatal("expected empty secret to fail verification")
	}
}
