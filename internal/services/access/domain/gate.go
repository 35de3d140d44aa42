// Package domain decides whether a partner can see a piece of gated content.
package domain

import (
	"fmt"
	"strings"
)

// Visibility controls how gated content is presented before unlocking.
type Visibility string

const (
	// VisibilityLocked hides gated content behind the unlock decision.
	VisibilityLocked Visibility = "locked"
	// VisibilityAlwaysVisible bypasses gating entirely.
	VisibilityAlwaysVisible Visibility = "always_visible"
	// VisibilityTeaser renders a blurred preview. It is a presentation hint
	// only; the unlock decision is identical to locked.
	VisibilityTeaser Visibility = "teaser"
)

// ParseVisibility normalizes a stored visibility token. Blank input resolves
// to locked, the defensive default for unspecified gates.
func ParseVisibility(raw string) (Visibility, error) {
	switch Visibility(strings.ToLower(strings.TrimSpace(raw))) {
	case VisibilityLocked, "":
		return VisibilityLocked, nil
	case VisibilityAlwaysVisible:
		return VisibilityAlwaysVisible, nil
	case VisibilityTeaser:
		return VisibilityTeaser, nil
	default:
		return "", fmt.Errorf("unknown visibility mode %q", raw)
	}
}

// Gate is the access-control configuration attached to one content item.
type Gate struct {
	ContentKey  string
	Visibility  Visibility
	Requirement Requirement
	// AllowedTiers is consulted only for specific/multiple requirements.
	AllowedTiers []Tier
	// RequiredVolume is the minimum qualifying volume, independent of tier.
	// Zero means no volume gate.
	RequiredVolume float64

	// Display metadata carried through for reporting. Never consulted by
	// gating decisions.
	VolumeImpact   float64
	StrategicLabel string
	AcademyLevel   string
}

// Viewer is the partner state a single access check runs against. It is
// constructed per session and immutable for the duration of one check.
type Viewer struct {
	PartnerID string
	Tier      Tier
	Volume    float64
}

// MalformedGateError reports a gate authored with a specific/multiple tier
// requirement but no allowed tiers. Such gates are rejected visibly instead
// of silently granting or denying access; callers render the content locked.
type MalformedGateError struct {
	ContentKey  string
	Requirement Requirement
}

func (e *MalformedGateError) Error() string {
	return fmt.Sprintf("gate %q has %s tier requirement with no allowed tiers", e.ContentKey, e.Requirement)
}
