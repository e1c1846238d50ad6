package logger

import (
	"strings"
	"testing"
)

func TestSanitizeRedactsCredentials(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"openai_api_key", "sk-abcdefghijklmnopqrstuvwxyz",
		"database_dsn", "postgres://u:p@db/moonshill",
		"campaign_id", "c1",
		"prompt_tokens", 412,
	})
	if out[1] != "[REDACTED]" || out[3] != "[REDACTED]" {
		t.Fatalf("credentials leaked: got=%v", out)
	}
	if out[5] != "c1" {
		t.Fatalf("campaign_id: want=c1 got=%v", out[5])
	}
	if out[7] != 412 {
		t.Fatalf("prompt_tokens: want=412 got=%v", out[7])
	}
}

func TestSanitizeHashesCommunityHandles(t *testing.T) {
	a := sanitizeKVs([]interface{}{"author_handle", "@degen"})
	b := sanitizeKVs([]interface{}{"author_handle", "@degen"})
	got, _ := a[1].(string)
	if !strings.HasPrefix(got, "hash:") || got == "hash:" {
		t.Fatalf("want hashed handle got=%v", a[1])
	}
	if a[1] != b[1] {
		t.Fatalf("hash not stable: want=%v got=%v", a[1], b[1])
	}
}

func TestSanitizeCatchesProviderKeyValues(t *testing.T) {
	out := sanitizeKVs([]interface{}{"detail", "AIzaSyA1234567890abcdefghijklmnopqrstu", "note", "sk-short"})
	if out[1] != "[REDACTED]" {
		t.Fatalf("google key: want redacted got=%v", out[1])
	}
	if out[3] != "sk-short" {
		t.Fatalf("short value: want untouched got=%v", out[3])
	}
}
