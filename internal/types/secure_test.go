package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestSecretString_RedactsInFmt(t *testing.T) {
	key := SecretString("gm-live-abc123")
	out := fmt.Sprintf("key=%s %v", key, key)
	if strings.Contains(out, "abc123") {
		t.Errorf("secret leaked through fmt: %s", out)
	}
	if !strings.Contains(out, "***REDACTED***") {
		t.Errorf("expected redaction placeholder, got %s", out)
	}
}

func TestSecretString_RedactsInJSON(t *testing.T) {
	payload := struct {
		APIKey SecretString `json:"api_key"`
	}{APIKey: "gm-live-abc123"}

	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "abc123") {
		t.Errorf("secret leaked through JSON: %s", b)
	}
}

func TestSecretString_Unmask(t *testing.T) {
	key := SecretString("gm-live-abc123")
	if key.Unmask() != "gm-live-abc123" {
		t.Errorf("Unmask returned %q", key.Unmask())
	}
}
