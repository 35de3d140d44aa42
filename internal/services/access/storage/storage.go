// Package storage defines persistence contracts for access-control state.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// GateRecord is one stored content gate row. Absent optional columns are
// carried as zero values: a blank visibility mode means locked, an empty
// allowed-tier list means none, a zero required volume means no volume gate.
type GateRecord struct {
	ContentKey      string
	VisibilityMode  string
	TierRequirement string
	AllowedTiers    []string
	RequiredVolume  float64
	VolumeImpact    float64
	StrategicLabel  string
	AcademyLevel    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PartnerRecord is one stored partner profile row.
type PartnerRecord struct {
	ID          string
	DisplayName string
	Tier        string
	Volume      float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Store is the persistence boundary for gates and partner profiles.
type Store interface {
	PutGate(ctx context.Context, record GateRecord) error
	GetGateByContentKey(ctx context.Context, contentKey string) (GateRecord, error)
	ListGates(ctx context.Context) ([]GateRecord, error)
	PutPartner(ctx context.Context, record PartnerRecord) error
	GetPartner(ctx context.Context, partnerID string) (PartnerRecord, error)
}
