package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrClaimed is returned when another unit already holds a campaign lease.
	ErrClaimed = errors.New("campaign already claimed")
)

// Kind classifies how the orchestrator reacts to a failure.
type Kind string

const (
	// KindConfiguration is fatal for one campaign cycle and pauses the campaign.
	KindConfiguration Kind = "configuration"
	// KindProvider aborts one (campaign, platform) attempt after retries.
	KindProvider Kind = "provider"
	// KindDataIntegrity skips the campaign for this batch.
	KindDataIntegrity Kind = "data_integrity"
)

type Error struct {
	Kind       Kind
	Op         string
	CampaignID uuid.UUID
	Platform   string
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(" error")
	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}
	if e.CampaignID != uuid.Nil {
		fmt.Fprintf(&b, " (campaign=%s", e.CampaignID)
		if e.Platform != "" {
			fmt.Fprintf(&b, " platform=%s", e.Platform)
		}
		b.WriteString(")")
	} else if e.Platform != "" {
		fmt.Fprintf(&b, " (platform=%s)", e.Platform)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func Configuration(op string, campaignID uuid.UUID, err error) *Error {
	return &Error{Kind: KindConfiguration, Op: op, CampaignID: campaignID, Err: err}
}

func Provider(op string, campaignID uuid.UUID, platform string, err error) *Error {
	return &Error{Kind: KindProvider, Op: op, CampaignID: campaignID, Platform: platform, Err: err}
}

func DataIntegrity(op string, campaignID uuid.UUID, err error) *Error {
	return &Error{Kind: KindDataIntegrity, Op: op, CampaignID: campaignID, Err: err}
}

// KindOf returns the kind of the first *Error in the chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, k Kind) bool { return err != nil && KindOf(err) == k }

// Is, As and New re-export the standard helpers so callers importing this
// package under the name "errors" keep them.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

func New(msg string) error { return errors.New(msg) }
