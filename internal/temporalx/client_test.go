package temporalx

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TEMPORAL_ADDRESS", "")
	t.Setenv("TEMPORAL_TICK_SCHEDULE", "")
	cfg := LoadConfig()
	if cfg.Enabled() {
		t.Fatalf("want disabled without address")
	}
	if cfg.Namespace != "moonshill" || cfg.TaskQueue != "moonshill" {
		t.Fatalf("defaults: got ns=%q queue=%q", cfg.Namespace, cfg.TaskQueue)
	}
	if cfg.TickSchedule != "@every 60s" {
		t.Fatalf("schedule: want=@every 60s got=%q", cfg.TickSchedule)
	}
}

func TestNewClientDisabled(t *testing.T) {
	c, err := NewClient(Config{}, nil)
	if err != nil || c != nil {
		t.Fatalf("disabled client: want nil,nil got=%v,%v", c, err)
	}
}

func TestLoadTLSConfigRequiresPair(t *testing.T) {
	if _, err := loadTLSConfig(Config{ClientCAPath: "/tmp/ca.pem"}); err == nil {
		t.Fatalf("want error when cert/key missing")
	}
}

func TestClampBackoff(t *testing.T) {
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 250 * time.Millisecond},
		{2, 500 * time.Millisecond},
		{3, time.Second},
		{10, 5 * time.Second},
	}
	for _, tc := range cases {
		if got := clampBackoff(250*time.Millisecond, 5*time.Second, tc.attempt); got != tc.want {
			t.Fatalf("attempt=%d want=%s got=%s", tc.attempt, tc.want, got)
		}
	}
}

func TestIsRetryableRPC(t *testing.T) {
	if !isRetryableRPC(status.Error(codes.Unavailable, "down")) {
		t.Fatalf("unavailable: want retryable")
	}
	if isRetryableRPC(status.Error(codes.PermissionDenied, "no")) {
		t.Fatalf("permission denied: want not retryable")
	}
	if !isRetryableRPC(context.DeadlineExceeded) {
		t.Fatalf("deadline: want retryable")
	}
	if isRetryableRPC(errors.New("plain")) {
		t.Fatalf("plain error: want not retryable")
	}
}
