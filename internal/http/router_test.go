package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/moonshill-backend/internal/domain"
	httpH "github.com/yungbote/moonshill-backend/internal/http/handlers"
	"github.com/yungbote/moonshill-backend/internal/http/response"
	"github.com/yungbote/moonshill-backend/internal/jobs/campaigntick"
	"github.com/yungbote/moonshill-backend/internal/modules/campaigns/scheduler"
	"github.com/yungbote/moonshill-backend/internal/observability"
	apperr "github.com/yungbote/moonshill-backend/internal/pkg/errors"
	"github.com/yungbote/moonshill-backend/internal/platform/ctxutil"
)

type stubRunner struct {
	out   *campaigntick.Outcome
	err   error
	force bool
	id    uuid.UUID
	td    *ctxutil.TraceData
}

func (s *stubRunner) RunCampaign(ctx context.Context, id uuid.UUID, force bool) (*campaigntick.Outcome, error) {
	s.id, s.force = id, force
	s.td = ctxutil.GetTraceData(ctx)
	return s.out, s.err
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func newTestRouter(runner *stubRunner, db httpH.Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(RouterConfig{
		Metrics:         observability.NewMetrics(),
		HealthHandler:   httpH.NewHealthHandler(db),
		CampaignHandler: httpH.NewCampaignHandler(nil, runner),
	})
}

func do(r http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(&stubRunner{}, stubPinger{})

	if rec := do(r, http.MethodGet, "/healthcheck"); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: got=%d %q", rec.Code, rec.Body.String())
	}
	if rec := do(r, http.MethodGet, "/readyz"); rec.Code != http.StatusOK {
		t.Fatalf("readyz: want=200 got=%d", rec.Code)
	}
	rec := do(r, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: want=200 got=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `moonshill_http_requests_total{method="GET",route="/healthcheck",status="200"} 1`) {
		t.Fatalf("metrics body missing request counter:\n%s", rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("missing X-Request-Id header")
	}
	if strings.Contains(rec.Body.String(), `route="/metrics"`) {
		t.Fatalf("metrics scrapes should not be counted")
	}

	do(r, http.MethodGet, "/no/such/path")
	rec = do(r, http.MethodGet, "/metrics")
	if !strings.Contains(rec.Body.String(), `route="unmatched",status="404"`) {
		t.Fatalf("unmatched route label missing:\n%s", rec.Body.String())
	}
}

func TestReadyReportsDatabaseDown(t *testing.T) {
	r := newTestRouter(&stubRunner{}, stubPinger{err: errors.New("refused")})
	if rec := do(r, http.MethodGet, "/readyz"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz: want=503 got=%d", rec.Code)
	}
}

func TestGenerateNowForcesRun(t *testing.T) {
	id := uuid.New()
	next := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	runner := &stubRunner{out: &campaigntick.Outcome{
		CampaignID: id,
		Posts: []*types.SocialPost{{
			ID:       uuid.New(),
			Platform: types.PlatformTwitter,
			Stage:    types.StageIntro,
			Style:    types.StyleThread,
			Content:  "gm",
		}},
		NextRunAt: &next,
	}}
	r := newTestRouter(runner, nil)

	rec := do(r, http.MethodPost, "/api/campaigns/"+id.String()+"/generate")
	if rec.Code != http.StatusOK {
		t.Fatalf("generate: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}
	if !runner.force || runner.id != id {
		t.Fatalf("runner: want force run of %s got force=%v id=%s", id, runner.force, runner.id)
	}
	var body struct {
		CampaignID uuid.UUID `json:"campaign_id"`
		Posts      []struct {
			Platform string `json:"platform"`
			Content  string `json:"content"`
		} `json:"posts"`
		NextRunAt *time.Time `json:"next_run_at"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.CampaignID != id || len(body.Posts) != 1 || body.Posts[0].Content != "gm" {
		t.Fatalf("body: got=%+v", body)
	}
	if body.NextRunAt == nil || !body.NextRunAt.Equal(next) {
		t.Fatalf("next_run_at: want=%v got=%v", next, body.NextRunAt)
	}
}

func TestGenerateNowErrors(t *testing.T) {
	id := uuid.New()
	cases := []struct {
		name   string
		path   string
		runner *stubRunner
		status int
		code   string
	}{
		{"bad id", "/api/campaigns/nope/generate", &stubRunner{}, http.StatusBadRequest, "invalid_argument"},
		{"busy", "/api/campaigns/" + id.String() + "/generate", &stubRunner{err: apperr.ErrClaimed}, http.StatusConflict, "campaign_busy"},
		{"unknown", "/api/campaigns/" + id.String() + "/generate", &stubRunner{
			err: apperr.DataIntegrity("claim_campaign", id, apperr.ErrNotFound),
		}, http.StatusNotFound, "not_found"},
		{"paused", "/api/campaigns/" + id.String() + "/generate", &stubRunner{
			out: &campaigntick.Outcome{CampaignID: id, Paused: true},
			err: apperr.Configuration("validate_settings", id, errors.New("max_daily_posts must be positive")),
		}, http.StatusUnprocessableEntity, "configuration_error"},
	}
	for _, tc := range cases {
		rec := do(newTestRouter(tc.runner, nil), http.MethodPost, tc.path)
		if rec.Code != tc.status {
			t.Fatalf("%s: want=%d got=%d", tc.name, tc.status, rec.Code)
		}
		var env response.ErrorEnvelope
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s: decode: %v", tc.name, err)
		}
		if env.Error.Code != tc.code {
			t.Fatalf("%s: code want=%s got=%s", tc.name, tc.code, env.Error.Code)
		}
	}
}

func TestGenerateNowSkippedIsOK(t *testing.T) {
	id := uuid.New()
	r := newTestRouter(&stubRunner{out: &campaigntick.Outcome{CampaignID: id, Skipped: scheduler.ReasonEmergencyStop}}, nil)
	rec := do(r, http.MethodPost, "/api/campaigns/"+id.String()+"/generate")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"skipped":"emergency_stop"`) {
		t.Fatalf("skipped: got=%d %s", rec.Code, rec.Body.String())
	}
}

func TestGenerateCarriesTraceIdentifiers(t *testing.T) {
	id := uuid.New()
	runner := &stubRunner{err: apperr.ErrClaimed}
	r := newTestRouter(runner, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/campaigns/"+id.String()+"/generate", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-Id") != "req-42" {
		t.Fatalf("request id header: want=req-42 got=%q", rec.Header().Get("X-Request-Id"))
	}
	if runner.td == nil || runner.td.CampaignID != id.String() || runner.td.RequestID != "req-42" {
		t.Fatalf("trace data: want campaign=%s request=req-42 got=%+v", id, runner.td)
	}
	var env response.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.RequestID != "req-42" {
		t.Fatalf("error request_id: want=req-42 got=%q", env.Error.RequestID)
	}
}
