package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/i474232898/crop-advisor/internal/crop"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateFallback(t *testing.T) {
	out, err := run(t, "validate", filepath.Join(t.TempDir(), "crop_rules.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "built-in rules would be used") || !strings.Contains(out, "1. Wheat") || !strings.Contains(out, "2. Rice") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestValidateMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crop_rules.json")
	if err := os.WriteFile(path, []byte(`[{`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := run(t, "validate", path); !errors.Is(err, crop.ErrMalformedRules) {
		t.Fatalf("expected ErrMalformedRules, got %v", err)
	}
}

func TestMatch(t *testing.T) {
	rules := filepath.Join(t.TempDir(), "missing.json")
	out, err := run(t, "match", "--rules", rules, "--condition", "Clear", "--temp", "12", "--soil", "Loamy", "--humidity", "40")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var res struct {
		Status          string                 `json:"status"`
		Recommendations []crop.Recommendation  `json:"recommendations"`
		Weather         map[string]interface{} `json:"weather"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.Status != "success" || len(res.Recommendations) != 1 || res.Recommendations[0].Temperature != "12°C" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Weather["humidity"] != 40.0 {
		t.Fatalf("expected humidity 40, got %v", res.Weather["humidity"])
	}

	out, err = run(t, "match", "--rules", rules, "--condition", "Snow", "--temp", "5", "--soil", "sandy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"status": "info"`) || !strings.Contains(out, `"humidity": "N/A"`) {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestMatchRequiresFlags(t *testing.T) {
	if _, err := run(t, "match", "--condition", "Clear"); err == nil {
		t.Fatalf("expected an error for missing required flags")
	}
}
