package scheduler

import (
	"time"

	types "github.com/yungbote/moonshill-backend/internal/domain"
)

// Reason explains why a campaign was skipped. Empty means eligible.
type Reason string

const (
	ReasonInactive          Reason = "campaign_inactive"
	ReasonPaused            Reason = "campaign_paused"
	ReasonNotRunning        Reason = "campaign_not_running"
	ReasonWorkspaceInactive Reason = "workspace_inactive"
	ReasonNoSettings        Reason = "settings_missing"
	ReasonEmergencyStop     Reason = "emergency_stop"
	ReasonNoPlatforms       Reason = "no_connected_platforms"
	ReasonNotDue            Reason = "not_due"
)

// Eligible reports whether the campaign may run now. Checks run in a fixed
// order and the first failure is returned.
func Eligible(c *types.Campaign, s *types.CampaignSettings, connected []types.Platform, now time.Time) (bool, Reason) {
	switch {
	case c == nil || !c.IsActive:
		return false, ReasonInactive
	case c.IsPaused:
		return false, ReasonPaused
	case c.Status != types.CampaignRunning:
		return false, ReasonNotRunning
	case c.Workspace == nil || !c.Workspace.IsActive || c.Workspace.IsDeleted:
		return false, ReasonWorkspaceInactive
	case s == nil:
		return false, ReasonNoSettings
	case s.EmergencyStopEnabled:
		return false, ReasonEmergencyStop
	case len(connected) == 0:
		return false, ReasonNoPlatforms
	case !c.Due(now):
		return false, ReasonNotDue
	}
	return true, ""
}
