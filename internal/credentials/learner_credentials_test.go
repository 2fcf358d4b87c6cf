package credentials

import (
	"strings"
	"testing"
)

func TestGenerateUsername(t *testing.T) {
	for i := 0; i < 50; i++ {
		username, err := GenerateUsername()
		if err != nil {
			t.Fatalf("GenerateUsername() error: %v", err)
		}

		parts := strings.Split(username, "-")
		if len(parts) != 2 {
			t.Fatalf("username %q not in adjective-noun form", username)
		}
		if parts[0] == "" || parts[1] == "" {
			t.Errorf("username %q has empty component", username)
		}
	}
}

func TestGeneratePIN(t *testing.T) {
	pins := make(map[string]bool)
	for i := 0; i < 100; i++ {
		pin, err := GeneratePIN()
		if err != nil {
			t.Fatalf("GeneratePIN() error: %v", err)
		}

		if len(pin) != 4 {
			t.Errorf("PIN length = %d, want 4", len(pin))
		}
		for _, c := range pin {
			if c < '0' || c > '9' {
				t.Errorf("PIN %q contains non-digit %q", pin, c)
			}
		}
		pins[pin] = true
	}

	// 100 draws from 10000 possible PINs should produce variety
	if len(pins) < 10 {
		t.Errorf("only %d distinct PINs in 100 draws", len(pins))
	}
}
