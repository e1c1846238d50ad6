package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/moonshill-backend/internal/http/response"
	"github.com/yungbote/moonshill-backend/internal/jobs/campaigntick"
	apperr "github.com/yungbote/moonshill-backend/internal/pkg/errors"
	"github.com/yungbote/moonshill-backend/internal/platform/logger"
)

// CampaignRunner runs one campaign cycle. *campaigntick.Runner satisfies it.
type CampaignRunner interface {
	RunCampaign(ctx context.Context, campaignID uuid.UUID, force bool) (*campaigntick.Outcome, error)
}

type CampaignHandler struct {
	log    *logger.Logger
	runner CampaignRunner
}

func NewCampaignHandler(log *logger.Logger, runner CampaignRunner) *CampaignHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &CampaignHandler{log: log.With("handler", "CampaignHandler"), runner: runner}
}

type generatedPost struct {
	ID       uuid.UUID `json:"id"`
	Platform string    `json:"platform"`
	Stage    string    `json:"stage"`
	Style    string    `json:"style"`
	Content  string    `json:"content"`
	Status   string    `json:"status"`
}

type platformFailure struct {
	Platform string `json:"platform"`
	Kind     string `json:"kind,omitempty"`
	Error    string `json:"error"`
}

type generateResponse struct {
	CampaignID uuid.UUID         `json:"campaign_id"`
	Skipped    string            `json:"skipped,omitempty"`
	Posts      []generatedPost   `json:"posts"`
	Failures   []platformFailure `json:"failures,omitempty"`
	NextRunAt  *time.Time        `json:"next_run_at,omitempty"`
}

// POST /api/campaigns/:id/generate
func (h *CampaignHandler) Generate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondAppError(c, apperr.ErrInvalidArgument)
		return
	}

	out, err := h.runner.RunCampaign(c.Request.Context(), id, true)
	if err != nil {
		h.log.Warn("Generate now failed", "campaign_id", id, "error", err)
		response.RespondAppError(c, err)
		return
	}

	resp := generateResponse{
		CampaignID: out.CampaignID,
		Skipped:    string(out.Skipped),
		Posts:      make([]generatedPost, 0, len(out.Posts)),
		NextRunAt:  out.NextRunAt,
	}
	for _, p := range out.Posts {
		resp.Posts = append(resp.Posts, generatedPost{
			ID:       p.ID,
			Platform: string(p.Platform),
			Stage:    string(p.Stage),
			Style:    string(p.Style),
			Content:  p.Content,
			Status:   string(p.Status),
		})
	}
	for _, f := range out.Failures {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		resp.Failures = append(resp.Failures, platformFailure{
			Platform: string(f.Platform),
			Kind:     string(f.Kind),
			Error:    msg,
		})
	}

	status := http.StatusOK
	if len(out.Posts) == 0 && len(out.Failures) > 0 {
		status = http.StatusBadGateway
	}
	c.JSON(status, resp)
}
