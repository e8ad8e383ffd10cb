package phone

import (
	"errors"
	"testing"

	"whatsapp-campaign-engine/internal/domain"
)

func TestNormalizeFormattingVariants(t *testing.T) {
	v := NewValidator("971")

	// All of these are the same UAE number written differently.
	variants := []string{
		"971501112222",
		"+971 50 111 2222",
		"00971501112222",
		"+971-50-111-2222",
		"(971) 50.111.2222",
		"0501112222",
		"050 111 2222",
	}

	const want = domain.CanonicalNumber("971501112222")
	for _, raw := range variants {
		got, err := v.Normalize(raw)
		if err != nil {
			t.Fatalf("Normalize(%q): unexpected error %v", raw, err)
		}
		if got != want {
			t.Errorf("Normalize(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	v := NewValidator("971")

	for _, raw := range []string{"971501112222", "+44 7700 900123", "919812345678"} {
		once, err := v.Normalize(raw)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", raw, err)
		}
		twice, err := v.Normalize(once.String())
		if err != nil {
			t.Fatalf("Normalize(Normalize(%q)): %v", raw, err)
		}
		if once != twice {
			t.Errorf("normalization not idempotent: %q -> %q -> %q", raw, once, twice)
		}
	}
}

func TestNormalizeByCountry(t *testing.T) {
	v := NewValidator("971")

	tests := []struct {
		raw  string
		want domain.CanonicalNumber
	}{
		{"+966 55 123 4567", "966551234567"},
		{"201012345678", "201012345678"},
		{"+91 98123 45678", "919812345678"},
		{"+44 7700 900123", "447700900123"},
		{"+1 (212) 555-0123", "12125550123"},
	}
	for _, tt := range tests {
		got, err := v.Normalize(tt.raw)
		if err != nil {
			t.Errorf("Normalize(%q): unexpected error %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeRejectsMalformed(t *testing.T) {
	v := NewValidator("971")

	bad := []string{
		"",
		"   ",
		"971501112222-malformed",
		"hello",
		"971",
		"97150111",           // too short
		"9715011122223333",   // too long
		"972501112222",       // unknown country code
		"971601112222",       // UAE numbers are mobile 5x only
	}
	for _, raw := range bad {
		if _, err := v.Normalize(raw); !errors.Is(err, domain.ErrInvalidNumber) {
			t.Errorf("Normalize(%q): want ErrInvalidNumber, got %v", raw, err)
		}
	}
}

func TestJID(t *testing.T) {
	v := NewValidator("971")
	n, err := v.Normalize("0501112222")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := n.JID(), "971501112222@s.whatsapp.net"; got != want {
		t.Errorf("JID() = %q, want %q", got, want)
	}
}
