package campaigns

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	s := DefaultSettings(uuid.New())
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate(defaults): %v", err)
	}
}

func TestValidateRejectsNonPositiveDailyPosts(t *testing.T) {
	for _, n := range []int{0, -3, 101} {
		s := DefaultSettings(uuid.New())
		s.MaxDailyPosts = n
		if err := s.Validate(); err == nil {
			t.Fatalf("Validate(max_daily_posts=%d): want error", n)
		}
	}
}

func TestValidateRejectsBadTimezone(t *testing.T) {
	s := DefaultSettings(uuid.New())
	s.OriginTimezone = "Mars/Olympus"
	if err := s.Validate(); err == nil {
		t.Fatalf("Validate: want error for unknown timezone")
	}
}

func TestPlatformOverrides(t *testing.T) {
	s := DefaultSettings(uuid.New())
	if got := s.Platform(PlatformTwitter).MaxLength; got != 280 {
		t.Fatalf("twitter default: want=280 got=%d", got)
	}
	s.PlatformSettings = datatypes.NewJSONType(map[Platform]PlatformSettings{
		PlatformTwitter: {MaxLength: 200},
	})
	if got := s.Platform(PlatformTwitter).MaxLength; got != 200 {
		t.Fatalf("twitter override: want=200 got=%d", got)
	}
	if got := s.Platform(PlatformDiscord).MaxLength; got != 2000 {
		t.Fatalf("discord default: want=2000 got=%d", got)
	}
}

func TestParseTimeline(t *testing.T) {
	cases := map[string]Timeline{
		"1 Week":     TimelineOneWeek,
		"2 weeks":    TimelineTwoWeeks,
		"SIX_MONTHS": TimelineSixMonths,
		" 1 Year ":   TimelineOneYear,
	}
	for in, want := range cases {
		got, ok := ParseTimeline(in)
		if !ok || got != want {
			t.Fatalf("ParseTimeline(%q): want=%q got=%q ok=%v", in, want, got, ok)
		}
	}
	if _, ok := ParseTimeline("forever"); ok {
		t.Fatalf("ParseTimeline(forever): want ok=false")
	}
}
