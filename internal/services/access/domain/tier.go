package domain

import (
	"fmt"
	"strings"
)

// Tier is a partner subscription level.
type Tier string

const (
	// TierStandard is the baseline tier every partner holds.
	TierStandard Tier = "standard"
	// TierPremium is the legacy generic premium tier without a sub-level.
	TierPremium Tier = "premium"
	// TierPremiumBase is the entry premium sub-level.
	TierPremiumBase Tier = "premium_base"
	// TierPremiumPro is the middle premium sub-level.
	TierPremiumPro Tier = "premium_pro"
	// TierPremiumElite is the top premium sub-level.
	TierPremiumElite Tier = "premium_elite"
)

// ParseTier normalizes a stored tier token into a Tier.
func ParseTier(raw string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(raw))) {
	case TierStandard:
		return TierStandard, nil
	case TierPremium:
		return TierPremium, nil
	case TierPremiumBase:
		return TierPremiumBase, nil
	case TierPremiumPro:
		return TierPremiumPro, nil
	case TierPremiumElite:
		return TierPremiumElite, nil
	case "":
		return TierStandard, nil
	default:
		return "", fmt.Errorf("unknown tier %q", raw)
	}
}

// premiumRank places a tier on the premium ladder. Standard partners rank
// zero; the legacy generic premium tier ranks alongside the base sub-level.
func premiumRank(tier Tier) int {
	switch tier {
	case TierPremium, TierPremiumBase:
		return 1
	case TierPremiumPro:
		return 2
	case TierPremiumElite:
		return 3
	default:
		return 0
	}
}

// Requirement is the tier condition attached to a content gate.
type Requirement string

const (
	// RequirementStandard admits every partner.
	RequirementStandard Requirement = "standard"
	// RequirementPremium admits any premium tier, sub-level or legacy generic.
	RequirementPremium Requirement = "premium"
	// RequirementPremiumBase admits the base premium sub-level and above.
	RequirementPremiumBase Requirement = "premium_base"
	// RequirementPremiumPro admits the pro premium sub-level and above.
	RequirementPremiumPro Requirement = "premium_pro"
	// RequirementPremiumElite admits only the elite premium sub-level.
	RequirementPremiumElite Requirement = "premium_elite"
	// RequirementSpecific admits tiers listed on the gate. Gate-only label.
	RequirementSpecific Requirement = "specific"
	// RequirementMultiple admits tiers listed on the gate. It is a distinct
	// authoring label upstream with the same runtime rule as specific.
	RequirementMultiple Requirement = "multiple"
)

// ParseRequirement normalizes a stored tier-requirement token.
func ParseRequirement(raw string) (Requirement, error) {
	switch Requirement(strings.ToLower(strings.TrimSpace(raw))) {
	case RequirementStandard:
		return RequirementStandard, nil
	case RequirementPremium:
		return RequirementPremium, nil
	case RequirementPremiumBase:
		return RequirementPremiumBase, nil
	case RequirementPremiumPro:
		return RequirementPremiumPro, nil
	case RequirementPremiumElite:
		return RequirementPremiumElite, nil
	case RequirementSpecific:
		return RequirementSpecific, nil
	case RequirementMultiple:
		return RequirementMultiple, nil
	case "":
		return RequirementStandard, nil
	default:
		return "", fmt.Errorf("unknown tier requirement %q", raw)
	}
}

// listsAllowedTiers reports whether the requirement is evaluated by set
// membership over the gate's allowed tiers.
func (r Requirement) listsAllowedTiers() bool {
	return r == RequirementSpecific || r == RequirementMultiple
}
