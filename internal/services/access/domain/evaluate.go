package domain

// Reason explains why content stayed locked.
type Reason string

const (
	// ReasonTierInsufficient indicates the partner's tier does not satisfy
	// the gate. Reported preferentially when the volume check also fails,
	// since tier is the primary gate.
	ReasonTierInsufficient Reason = "tier_insufficient"
	// ReasonVolumeInsufficient indicates only the volume check failed.
	ReasonVolumeInsufficient Reason = "volume_insufficient"
)

// Decision is the outcome of one access check. It is never mutated after
// creation and is recomputed on every check.
type Decision struct {
	Unlocked bool
	Reason   Reason
}

// Evaluate maps one gate and one viewer to an unlock decision.
//
// The function is pure and safe to call on every render from any number of
// goroutines. Rules run in fixed order: gate validation, always-visible
// bypass, tier check, volume check. Tier and volume checks are independent
// and both must pass.
func Evaluate(gate Gate, viewer Viewer) (Decision, error) {
	if gate.Requirement.listsAllowedTiers() && len(gate.AllowedTiers) == 0 {
		return Decision{}, &MalformedGateError{ContentKey: gate.ContentKey, Requirement: gate.Requirement}
	}

	if gate.Visibility == VisibilityAlwaysVisible {
		return Decision{Unlocked: true}, nil
	}

	tierOK := tierSatisfied(gate, viewer.Tier)
	volumeOK := gate.RequiredVolume <= 0 || viewer.Volume >= gate.RequiredVolume

	if tierOK && volumeOK {
		return Decision{Unlocked: true}, nil
	}
	if !tierOK {
		return Decision{Reason: ReasonTierInsufficient}, nil
	}
	return Decision{Reason: ReasonVolumeInsufficient}, nil
}

func tierSatisfied(gate Gate, tier Tier) bool {
	switch gate.Requirement {
	case RequirementStandard, "":
		return true
	case RequirementPremium:
		return premiumRank(tier) >= 1
	case RequirementPremiumBase:
		return premiumRank(tier) >= premiumRank(TierPremiumBase)
	case RequirementPremiumPro:
		return premiumRank(tier) >= premiumRank(TierPremiumPro)
	case RequirementPremiumElite:
		return premiumRank(tier) >= premiumRank(TierPremiumElite)
	case RequirementSpecific, RequirementMultiple:
		for _, allowed := range gate.AllowedTiers {
			if allowed == tier {
				return true
			}
		}
		return false
	default:
		return false
	}
}
