// Package seed loads YAML fixtures into the dashboard's SQLite stores.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lumendist/partnerhub/internal/platform/id"
	accessstorage "github.com/lumendist/partnerhub/internal/services/access/storage"
	notificationsstorage "github.com/lumendist/partnerhub/internal/services/notifications/storage"
)

// Fixture is the root of one seed document.
type Fixture struct {
	Partners      []PartnerFixture      `yaml:"partners"`
	Gates         []GateFixture         `yaml:"gates"`
	Notifications []NotificationFixture `yaml:"notifications"`
}

// PartnerFixture seeds one partner profile.
type PartnerFixture struct {
	ID          string  `yaml:"id"`
	DisplayName string  `yaml:"display_name"`
	Tier        string  `yaml:"tier"`
	Volume      float64 `yaml:"volume"`
}

// GateFixture seeds one content gate.
type GateFixture struct {
	ContentKey      string   `yaml:"content_key"`
	Visibility      string   `yaml:"visibility"`
	TierRequirement string   `yaml:"tier_requirement"`
	AllowedTiers    []string `yaml:"allowed_tiers"`
	RequiredVolume  float64  `yaml:"required_volume"`
	VolumeImpact    float64  `yaml:"volume_impact"`
	StrategicLabel  string   `yaml:"strategic_label"`
	AcademyLevel    string   `yaml:"academy_level"`
}

// NotificationFixture seeds one notification row.
type NotificationFixture struct {
	ID          string `yaml:"id"`
	Recipient   string `yaml:"recipient"`
	MessageType string `yaml:"message_type"`
	Payload     string `yaml:"payload"`
	DedupeKey   string `yaml:"dedupe_key"`
	Source      string `yaml:"source"`
	Link        string `yaml:"link"`
}

// Summary reports how many rows each Apply pass wrote. GatesTotal counts
// every gate in the store after the pass, so reruns show the cumulative size
// rather than just this run's upserts.
type Summary struct {
	Partners      int
	Gates         int
	GatesTotal    int
	Notifications int
	Skipped       int
}

// Load decodes one fixture document. Unknown fields are rejected so typos in
// fixture files fail loudly.
func Load(r io.Reader) (Fixture, error) {
	if r == nil {
		return Fixture{}, errors.New("fixture reader is required")
	}
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var fixture Fixture
	if err := decoder.Decode(&fixture); err != nil {
		return Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	return fixture, nil
}

// Apply upserts fixture rows into the access and notification stores.
// Partners and gates replace existing rows; notifications that collide on a
// dedupe key are counted as skipped rather than failing the run.
func Apply(ctx context.Context, fixture Fixture, accessStore accessstorage.Store, notificationsStore notificationsstorage.Store) (Summary, error) {
	if accessStore == nil {
		return Summary{}, errors.New("access store is required")
	}
	if notificationsStore == nil {
		return Summary{}, errors.New("notifications store is required")
	}

	now := time.Now().UTC()
	summary := Summary{}

	for _, partner := range fixture.Partners {
		record := accessstorage.PartnerRecord{
			ID:          partner.ID,
			DisplayName: partner.DisplayName,
			Tier:        partner.Tier,
			Volume:      partner.Volume,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := accessStore.PutPartner(ctx, record); err != nil {
			return summary, fmt.Errorf("seed partner %q: %w", partner.ID, err)
		}
		summary.Partners++
	}

	for _, gate := range fixture.Gates {
		record := accessstorage.GateRecord{
			ContentKey:      gate.ContentKey,
			VisibilityMode:  gate.Visibility,
			TierRequirement: gate.TierRequirement,
			AllowedTiers:    gate.AllowedTiers,
			RequiredVolume:  gate.RequiredVolume,
			VolumeImpact:    gate.VolumeImpact,
			StrategicLabel:  gate.StrategicLabel,
			AcademyLevel:    gate.AcademyLevel,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := accessStore.PutGate(ctx, record); err != nil {
			return summary, fmt.Errorf("seed gate %q: %w", gate.ContentKey, err)
		}
		summary.Gates++
	}

	for _, notification := range fixture.Notifications {
		notificationID := strings.TrimSpace(notification.ID)
		if notificationID == "" {
			generated, err := id.NewID()
			if err != nil {
				return summary, fmt.Errorf("generate notification id: %w", err)
			}
			notificationID = generated
		}
		record := notificationsstorage.NotificationRecord{
			ID:                 notificationID,
			RecipientPartnerID: notification.Recipient,
			MessageType:        notification.MessageType,
			PayloadJSON:        notification.Payload,
			DedupeKey:          notification.DedupeKey,
			Source:             notification.Source,
			Link:               notification.Link,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		err := notificationsStore.PutNotification(ctx, record)
		switch {
		case err == nil:
			summary.Notifications++
		case errors.Is(err, notificationsstorage.ErrDuplicateDedupeKey):
			summary.Skipped++
		default:
			return summary, fmt.Errorf("seed notification %q: %w", notificationID, err)
		}
	}

	gates, err := accessStore.ListGates(ctx)
	if err != nil {
		return summary, fmt.Errorf("count seeded gates: %w", err)
	}
	summary.GatesTotal = len(gates)

	return summary, nil
}
