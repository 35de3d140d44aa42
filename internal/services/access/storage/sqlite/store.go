// Package sqlite provides SQLite-backed persistence for access-control state.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/lumendist/partnerhub/internal/platform/storage/sqlitemigrate"
	"github.com/lumendist/partnerhub/internal/services/access/storage"
	"github.com/lumendist/partnerhub/internal/services/access/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for gates and partner profiles.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens an access SQLite store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_pragma=foreign_keys(ON)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutGate upserts one content gate row.
func (s *Store) PutGate(ctx context.Context, record storage.GateRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	normalized, err := normalizeGateRecord(record)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(ctx, `
	INSERT INTO content_gates (
		content_key, visibility_mode, tier_requirement, allowed_tiers, required_volume,
		volume_impact, strategic_label, academy_level, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(content_key) DO UPDATE SET
		visibility_mode = excluded.visibility_mode,
		tier_requirement = excluded.tier_requirement,
		allowed_tiers = excluded.allowed_tiers,
		required_volume = excluded.required_volume,
		volume_impact = excluded.volume_impact,
		strategic_label = excluded.strategic_label,
		academy_level = excluded.academy_level,
		updated_at = excluded.updated_at
	`,
		normalized.ContentKey,
		normalized.VisibilityMode,
		normalized.TierRequirement,
		encodeTierList(normalized.AllowedTiers),
		normalized.RequiredVolume,
		normalized.VolumeImpact,
		normalized.StrategicLabel,
		normalized.AcademyLevel,
		toMillis(normalized.CreatedAt),
		toMillis(normalized.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put gate: %w", err)
	}
	return nil
}

// GetGateByContentKey loads one content gate row.
func (s *Store) GetGateByContentKey(ctx context.Context, contentKey string) (storage.GateRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.GateRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.GateRecord{}, fmt.Errorf("storage is not configured")
	}
	contentKey = strings.TrimSpace(contentKey)
	if contentKey == "" {
		return storage.GateRecord{}, fmt.Errorf("content key is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT content_key, visibility_mode, tier_requirement, allowed_tiers, required_volume,
       volume_impact, strategic_label, academy_level, created_at, updated_at
FROM content_gates
WHERE content_key = ?
`, contentKey)
	record, err := scanGate(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.GateRecord{}, storage.ErrNotFound
		}
		return storage.GateRecord{}, fmt.Errorf("get gate: %w", err)
	}
	return record, nil
}

// ListGates lists every content gate ordered by content key.
func (s *Store) ListGates(ctx context.Context) ([]storage.GateRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT content_key, visibility_mode, tier_requirement, allowed_tiers, required_volume,
       volume_impact, strategic_label, academy_level, created_at, updated_at
FROM content_gates
ORDER BY content_key ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list gates: %w", err)
	}
	defer rows.Close()

	var records []storage.GateRecord
	for rows.Next() {
		record, scanErr := scanGate(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("scan gate row: %w", scanErr)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gate rows: %w", err)
	}
	return records, nil
}

// PutPartner upserts one partner profile row.
func (s *Store) PutPartner(ctx context.Context, record storage.PartnerRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	normalized, err := normalizePartnerRecord(record)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(ctx, `
	INSERT INTO partners (id, display_name, tier, volume, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		display_name = excluded.display_name,
		tier = excluded.tier,
		volume = excluded.volume,
		updated_at = excluded.updated_at
	`,
		normalized.ID,
		normalized.DisplayName,
		normalized.Tier,
		normalized.Volume,
		toMillis(normalized.CreatedAt),
		toMillis(normalized.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put partner: %w", err)
	}
	return nil
}

// GetPartner loads one partner profile row.
func (s *Store) GetPartner(ctx context.Context, partnerID string) (storage.PartnerRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.PartnerRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.PartnerRecord{}, fmt.Errorf("storage is not configured")
	}
	partnerID = strings.TrimSpace(partnerID)
	if partnerID == "" {
		return storage.PartnerRecord{}, fmt.Errorf("partner id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, display_name, tier, volume, created_at, updated_at
FROM partners
WHERE id = ?
`, partnerID)

	var record storage.PartnerRecord
	var createdAt int64
	var updatedAt int64
	if err := row.Scan(&record.ID, &record.DisplayName, &record.Tier, &record.Volume, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.PartnerRecord{}, storage.ErrNotFound
		}
		return storage.PartnerRecord{}, fmt.Errorf("get partner: %w", err)
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

type scanner func(dest ...any) error

func normalizeGateRecord(record storage.GateRecord) (storage.GateRecord, error) {
	record.ContentKey = strings.TrimSpace(record.ContentKey)
	record.VisibilityMode = strings.TrimSpace(record.VisibilityMode)
	record.TierRequirement = strings.TrimSpace(record.TierRequirement)
	record.StrategicLabel = strings.TrimSpace(record.StrategicLabel)
	record.AcademyLevel = strings.TrimSpace(record.AcademyLevel)
	if record.ContentKey == "" {
		return storage.GateRecord{}, fmt.Errorf("content key is required")
	}
	if record.RequiredVolume < 0 {
		return storage.GateRecord{}, fmt.Errorf("required volume must be non-negative")
	}
	if record.CreatedAt.IsZero() {
		return storage.GateRecord{}, fmt.Errorf("created_at is required")
	}
	if record.UpdatedAt.IsZero() {
		return storage.GateRecord{}, fmt.Errorf("updated_at is required")
	}
	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = record.UpdatedAt.UTC()
	return record, nil
}

func normalizePartnerRecord(record storage.PartnerRecord) (storage.PartnerRecord, error) {
	record.ID = strings.TrimSpace(record.ID)
	record.DisplayName = strings.TrimSpace(record.DisplayName)
	record.Tier = strings.TrimSpace(record.Tier)
	if record.ID == "" {
		return storage.PartnerRecord{}, fmt.Errorf("partner id is required")
	}
	if record.Volume < 0 {
		return storage.PartnerRecord{}, fmt.Errorf("volume must be non-negative")
	}
	if record.CreatedAt.IsZero() {
		return storage.PartnerRecord{}, fmt.Errorf("created_at is required")
	}
	if record.UpdatedAt.IsZero() {
		return storage.PartnerRecord{}, fmt.Errorf("updated_at is required")
	}
	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = record.UpdatedAt.UTC()
	return record, nil
}

func scanGate(scan scanner) (storage.GateRecord, error) {
	var record storage.GateRecord
	var allowedTiers string
	var createdAt int64
	var updatedAt int64
	if err := scan(
		&record.ContentKey,
		&record.VisibilityMode,
		&record.TierRequirement,
		&allowedTiers,
		&record.RequiredVolume,
		&record.VolumeImpact,
		&record.StrategicLabel,
		&record.AcademyLevel,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.GateRecord{}, err
	}
	record.AllowedTiers = decodeTierList(allowedTiers)
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

// encodeTierList stores allowed tiers as a comma-separated token list.
func encodeTierList(tiers []string) string {
	cleaned := make([]string, 0, len(tiers))
	for _, tier := range tiers {
		trimmed := strings.TrimSpace(tier)
		if trimmed == "" {
			continue
		}
		cleaned = append(cleaned, trimmed)
	}
	return strings.Join(cleaned, ",")
}

func decodeTierList(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	tiers := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		tiers = append(tiers, trimmed)
	}
	return tiers
}
