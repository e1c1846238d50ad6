package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"

	apperr "github.com/yungbote/moonshill-backend/internal/pkg/errors"
)

func TestStatusFor(t *testing.T) {
	id := uuid.New()
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"claimed", fmt.Errorf("run: %w", apperr.ErrClaimed), http.StatusConflict, "campaign_busy"},
		{"configuration", apperr.Configuration("validate_settings", id, errors.New("max_daily_posts")), http.StatusUnprocessableEntity, "configuration_error"},
		{"missing campaign", apperr.DataIntegrity("load_campaign", id, apperr.ErrNotFound), http.StatusNotFound, "not_found"},
		{"integrity", apperr.DataIntegrity("load_settings", id, errors.New("corrupt")), http.StatusConflict, "data_integrity_error"},
		{"provider", apperr.Provider("generate", id, "twitter", errors.New("429")), http.StatusBadGateway, "provider_error"},
		{"bad id", apperr.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		status, code := StatusFor(tc.err)
		if status != tc.status || code != tc.code {
			t.Fatalf("%s: want=%d/%s got=%d/%s", tc.name, tc.status, tc.code, status, code)
		}
	}
}
