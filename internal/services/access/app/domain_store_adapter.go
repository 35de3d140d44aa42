// Package app wires access persistence into the domain boundary.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumendist/partnerhub/internal/services/access/domain"
	"github.com/lumendist/partnerhub/internal/services/access/storage"
)

// DomainStore adapts the storage boundary to the domain Store contract,
// resolving nullable stored fields to their documented defaults.
type DomainStore struct {
	store storage.Store
}

// NewDomainStore constructs the storage-backed domain store.
func NewDomainStore(store storage.Store) *DomainStore {
	return &DomainStore{store: store}
}

// GetGate loads one gate and resolves stored tokens to domain values.
func (a *DomainStore) GetGate(ctx context.Context, contentKey string) (domain.Gate, error) {
	if a == nil || a.store == nil {
		return domain.Gate{}, domain.ErrStoreNotConfigured
	}
	record, err := a.store.GetGateByContentKey(ctx, contentKey)
	if err != nil {
		return domain.Gate{}, mapStorageError(err)
	}
	return toDomainGate(record)
}

// GetViewer loads one partner profile as an immutable viewer.
func (a *DomainStore) GetViewer(ctx context.Context, partnerID string) (domain.Viewer, error) {
	if a == nil || a.store == nil {
		return domain.Viewer{}, domain.ErrStoreNotConfigured
	}
	record, err := a.store.GetPartner(ctx, partnerID)
	if err != nil {
		return domain.Viewer{}, mapStorageError(err)
	}
	tier, err := domain.ParseTier(record.Tier)
	if err != nil {
		return domain.Viewer{}, fmt.Errorf("partner %s: %w", record.ID, err)
	}
	return domain.Viewer{
		PartnerID: record.ID,
		Tier:      tier,
		Volume:    record.Volume,
	}, nil
}

func toDomainGate(record storage.GateRecord) (domain.Gate, error) {
	visibility, err := domain.ParseVisibility(record.VisibilityMode)
	if err != nil {
		return domain.Gate{}, fmt.Errorf("gate %s: %w", record.ContentKey, err)
	}
	requirement, err := domain.ParseRequirement(record.TierRequirement)
	if err != nil {
		return domain.Gate{}, fmt.Errorf("gate %s: %w", record.ContentKey, err)
	}
	var allowed []domain.Tier
	for _, raw := range record.AllowedTiers {
		tier, parseErr := domain.ParseTier(raw)
		if parseErr != nil {
			return domain.Gate{}, fmt.Errorf("gate %s allowed tier: %w", record.ContentKey, parseErr)
		}
		allowed = append(allowed, tier)
	}
	return domain.Gate{
		ContentKey:     record.ContentKey,
		Visibility:     visibility,
		Requirement:    requirement,
		AllowedTiers:   allowed,
		RequiredVolume: record.RequiredVolume,
		VolumeImpact:   record.VolumeImpact,
		StrategicLabel: record.StrategicLabel,
		AcademyLevel:   record.AcademyLevel,
	}, nil
}

func mapStorageError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return domain.ErrNotFound
	}
	return err
}
