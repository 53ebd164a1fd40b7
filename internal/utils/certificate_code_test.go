package utils

import (
	"strings"
	"testing"
)

func TestGenerateCertificateCode(t *testing.T) {
	code, err := GenerateCertificateCode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parts := strings.Split(code, "-")
	if len(parts) != 3 {
		t.Fatalf("expected CERT-<ts>-<rand>, got %s", code)
	}
	if parts[0] != "CERT" {
		t.Errorf("expected CERT prefix, got %s", parts[0])
	}
	if code != strings.ToUpper(code) {
		t.Errorf("expected an uppercase code, got %s", code)
	}
	if len(parts[2]) != 8 {
		t.Errorf("expected an 8 hex char suffix, got %s", parts[2])
	}

	seen := map[string]struct{}{code: {}}
	for i := 0; i < 200; i++ {
		c, err := GenerateCertificateCode()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, dup := seen[c]; dup {
			t.Fatalf("duplicate code generated: %s", c)
		}
		seen[c] = struct{}{}
	}
}
