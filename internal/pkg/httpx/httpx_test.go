package httpx

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), true},
		{"429", &StatusError{Service: "x", StatusCode: 429}, true},
		{"503", &StatusError{Service: "x", StatusCode: 503}, true},
		{"400", &StatusError{Service: "x", StatusCode: 400}, false},
		{"plain", fmt.Errorf("boom"), false},
	}
	for _, tc := range cases {
		if got := IsRetryableError(tc.err); got != tc.want {
			t.Fatalf("%s: want=%v got=%v", tc.name, tc.want, got)
		}
	}
}

func TestDoJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Key") != "k" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"no key"}`))
			return
		}
		_, _ = w.Write([]byte(`{"value":42}`))
	}))
	defer srv.Close()

	var out struct {
		Value int `json:"value"`
	}
	if err := DoJSON(context.Background(), srv.Client(), "test", http.MethodGet, srv.URL, map[string]string{"X-Key": "k"}, nil, &out); err != nil {
		t.Fatalf("DoJSON: %v", err)
	}
	if out.Value != 42 {
		t.Fatalf("DoJSON: want=42 got=%d", out.Value)
	}

	err := DoJSON(context.Background(), srv.Client(), "test", http.MethodGet, srv.URL, nil, nil, &out)
	var se *StatusError
	if err == nil || !asStatus(err, &se) || se.StatusCode != http.StatusUnauthorized {
		t.Fatalf("DoJSON: want 401 StatusError got=%v", err)
	}
}

func asStatus(err error, target **StatusError) bool {
	se, ok := err.(*StatusError)
	if ok {
		*target = se
	}
	return ok
}
