// Package state persists what users change at runtime: reached progress
// states and small settings documents such as the edited teams, the report
// configuration and the matrix filters.
//
// Two backends implement Store:
//   - GORMStore: SQLite (pure Go) or PostgreSQL
//   - BadgerStore: embedded key-value store
package state

import (
	"context"
	"errors"
	"time"

	"github.com/marmos91/dsomm/pkg/model"
)

// Known setting keys.
const (
	SettingTeams         = "teams"
	SettingReport        = "report"
	SettingMatrixFilters = "matrix.filters"
	SettingMaxLevel      = "settings.max_level"
	SettingDateFormat    = "settings.date_format"
)

var (
	ErrSettingNotFound = errors.New("setting not found")
	ErrClosed          = errors.New("state store closed")
)

// Setting is a stored key/value pair.
type Setting struct {
	Key       string    `json:"key" yaml:"key"`
	Value     string    `json:"value" yaml:"value"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Store is the persistence backend of the tracker.
type Store interface {
	// LoadProgress returns every stored progress record.
	LoadProgress(ctx context.Context) ([]model.ProgressRecord, error)

	// SaveProgress replaces all stored progress with records.
	SaveProgress(ctx context.Context, records []model.ProgressRecord) error

	// ReplaceTeamProgress replaces the records of one activity and team.
	ReplaceTeamProgress(ctx context.Context, activityUUID, team string, records []model.ProgressRecord) error

	// DeleteProgress removes all stored progress.
	DeleteProgress(ctx context.Context) error

	// GetSetting returns ErrSettingNotFound for unknown keys.
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error
	ListSettings(ctx context.Context) ([]Setting, error)

	Healthcheck(ctx context.Context) error
	Close() error
}
