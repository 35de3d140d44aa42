package domain

import "testing"

func TestParseTier(t *testing.T) {
	tests := []struct {
		raw  string
		want Tier
	}{
		{"standard", TierStandard},
		{"  PREMIUM  ", TierPremium},
		{"premium_base", TierPremiumBase},
		{"Premium_Pro", TierPremiumPro},
		{"premium_elite", TierPremiumElite},
		{"", TierStandard},
	}
	for _, tc := range tests {
		got, err := ParseTier(tc.raw)
		if err != nil {
			t.Fatalf("parse tier %q: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("parse tier %q = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestParseTierRejectsGateOnlyLabels(t *testing.T) {
	for _, raw := range []string{"specific", "multiple", "gold"} {
		if _, err := ParseTier(raw); err == nil {
			t.Fatalf("expected error for tier %q", raw)
		}
	}
}

func TestParseRequirement(t *testing.T) {
	tests := []struct {
		raw  string
		want Requirement
	}{
		{"standard", RequirementStandard},
		{"premium", RequirementPremium},
		{"premium_base", RequirementPremiumBase},
		{"premium_pro", RequirementPremiumPro},
		{"premium_elite", RequirementPremiumElite},
		{"specific", RequirementSpecific},
		{"MULTIPLE", RequirementMultiple},
		{"", RequirementStandard},
	}
	for _, tc := range tests {
		got, err := ParseRequirement(tc.raw)
		if err != nil {
			t.Fatalf("parse requirement %q: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("parse requirement %q = %q, want %q", tc.raw, got, tc.want)
		}
	}

	if _, err := ParseRequirement("vip"); err == nil {
		t.Fatal("expected error for unknown requirement")
	}
}

func TestParseVisibilityDefaultsToLocked(t *testing.T) {
	got, err := ParseVisibility("")
	if err != nil {
		t.Fatalf("parse visibility: %v", err)
	}
	if got != VisibilityLocked {
		t.Fatalf("blank visibility = %q, want locked default", got)
	}

	if _, err := ParseVisibility("shimmer"); err == nil {
		t.Fatal("expected error for unknown visibility")
	}
}
