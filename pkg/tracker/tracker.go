// Package tracker is the runtime service behind the API. It owns the data
// loader and the state store, keeps the loaded DataStore current and
// persists every user edit.
//
// Reads of the DataStore take a read lock; edits take the write lock, so a
// view is never built from a half applied change.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/marmos91/dsomm/internal/logger"
	"github.com/marmos91/dsomm/internal/telemetry"
	"github.com/marmos91/dsomm/pkg/loader"
	"github.com/marmos91/dsomm/pkg/metrics"
	"github.com/marmos91/dsomm/pkg/model"
	"github.com/marmos91/dsomm/pkg/source"
	"github.com/marmos91/dsomm/pkg/state"
)

var (
	ErrNotLoaded           = errors.New("data not loaded")
	ErrRenameNotAllowed    = errors.New("renaming teams is disabled by allowChangeTeamNameInBrowser")
	ErrInvalidSettingValue = errors.New("invalid setting value")
)

type options struct {
	metaFile string
	metrics  metrics.TrackerMetrics
	clock    func() time.Time
}

// Option configures a Service.
type Option func(*options)

// WithMetaFile overrides the meta file name inside the source.
func WithMetaFile(name string) Option {
	return func(o *options) { o.metaFile = name }
}

func WithMetrics(m metrics.TrackerMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithClock sets the clock used for progress dates and report timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// Service coordinates loading, views and persistence.
type Service struct {
	loader  *loader.Service
	store   state.Store
	metrics metrics.TrackerMetrics
	clock   func() time.Time

	mu sync.RWMutex
}

func New(src source.Source, store state.Store, opts ...Option) *Service {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	s := &Service{
		store:   store,
		metrics: o.metrics,
		clock:   o.clock,
	}
	s.loader = loader.New(src, loader.Options{
		MetaFile: o.metaFile,
		Stored:   s,
		Clock:    o.clock,
	})
	return s
}

// Loader returns the underlying loader, e.g. to watch the data directory.
func (s *Service) Loader() *loader.Service { return s.loader }

// Store returns the state store.
func (s *Service) Store() state.Store { return s.store }

// Now returns the service clock.
func (s *Service) Now() time.Time { return s.clock() }

// Loaded reports whether data has been loaded successfully.
func (s *Service) Loaded() bool {
	return s.loader.DataStore() != nil
}

// Load returns the data, loading it on first use.
func (s *Service) Load(ctx context.Context) (*model.DataStore, error) {
	if data := s.loader.DataStore(); data != nil {
		return data, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx, false)
}

// Reload drops every cache and loads the data again. Stored edits are
// merged again on top of the files.
func (s *Service) Reload(ctx context.Context) (*model.DataStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx, true)
}

func (s *Service) loadLocked(ctx context.Context, force bool) (*model.DataStore, error) {
	start := time.Now()
	var data *model.DataStore
	var err error
	if force {
		data, err = s.loader.ForceReload(ctx)
	} else {
		data, err = s.loader.Load(ctx)
	}

	var activities int
	if data != nil {
		activities = len(data.Activities.AllActivities())
	}
	metrics.ObserveLoad(s.metrics, time.Since(start), activities, err)
	if err != nil {
		logger.ErrorCtx(ctx, "Data load failed", logger.Err(err))
		return nil, err
	}
	metrics.SetTeams(s.metrics, len(data.Meta.Teams))
	logger.InfoCtx(ctx, "Data loaded",
		logger.KeyActivities, activities,
		"teams", len(data.Meta.Teams),
		logger.DurationMs(start))
	return data, nil
}

// read runs fn on the loaded data under the read lock.
func (s *Service) read(ctx context.Context, fn func(*model.DataStore) error) error {
	if _, err := s.Load(ctx); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data := s.loader.DataStore()
	if data == nil {
		return ErrNotLoaded
	}
	return fn(data)
}

// write runs fn on the loaded data under the write lock.
func (s *Service) write(ctx context.Context, fn func(*model.DataStore) error) error {
	if _, err := s.Load(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data := s.loader.DataStore()
	if data == nil {
		return ErrNotLoaded
	}
	return fn(data)
}

// ============================================
// STORED STATE
// ============================================

// StoredTeams returns the edited teams and groups, or nil when none are stored.
func (s *Service) StoredTeams(ctx context.Context) (*model.TeamsDocument, error) {
	v, err := s.store.GetSetting(ctx, state.SettingTeams)
	if errors.Is(err, state.ErrSettingNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read stored teams: %w", err)
	}
	var doc model.TeamsDocument
	if err := yaml.Unmarshal([]byte(v), &doc); err != nil {
		return nil, fmt.Errorf("decode stored teams: %w", err)
	}
	return &doc, nil
}

// StoredProgress returns the progress edits, or nil when none are stored.
func (s *Service) StoredProgress(ctx context.Context) (model.Progress, error) {
	records, err := s.store.LoadProgress(ctx)
	if err != nil {
		return nil, fmt.Errorf("read stored progress: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return model.ProgressFromRecords(records), nil
}

var _ loader.StoredState = (*Service)(nil)

// ============================================
// PROGRESS
// ============================================

// SetProgress moves a team to a progress state on an activity and persists
// the team's progress on that activity.
func (s *Service) SetProgress(ctx context.Context, activityUUID, team, title string) error {
	ctx, span := telemetry.StartProgressSpan(ctx, telemetry.SpanProgressSet, activityUUID, team, telemetry.Title(title))
	defer span.End()

	return s.write(ctx, func(data *model.DataStore) error {
		if _, ok := data.Activities.ActivityByUUID(activityUUID); !ok {
			return fmt.Errorf("%w: %s", model.ErrActivityNotFound, activityUUID)
		}
		if !data.Meta.HasTeam(team) {
			return fmt.Errorf("%w: %s", model.ErrTeamNotFound, team)
		}
		if err := data.Progress.SetTeamActivityProgressState(activityUUID, team, title); err != nil {
			return err
		}

		var records []model.ProgressRecord
		for _, r := range data.Progress.Records() {
			if r.ActivityUUID == activityUUID && r.Team == team {
				records = append(records, r)
			}
		}
		if err := s.store.ReplaceTeamProgress(ctx, activityUUID, team, records); err != nil {
			telemetry.RecordError(ctx, err)
			return err
		}

		metrics.RecordProgressUpdate(s.metrics, team, title)
		logger.InfoCtx(ctx, "Progress updated",
			logger.Activity(activityUUID), logger.Team(team), logger.Title(title))
		return nil
	})
}

// DeleteStoredProgress forgets every progress edit and reloads, leaving the
// progress of the team progress file.
func (s *Service) DeleteStoredProgress(ctx context.Context) error {
	ctx, span := telemetry.StartDataSpan(ctx, telemetry.SpanProgressDelete)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.DeleteProgress(ctx); err != nil {
		return fmt.Errorf("delete stored progress: %w", err)
	}
	logger.InfoCtx(ctx, "Stored progress deleted")
	_, err := s.loadLocked(ctx, true)
	return err
}

// ExportProgressYAML renders the current progress in the team progress file format.
func (s *Service) ExportProgressYAML(ctx context.Context) (string, error) {
	var out string
	err := s.read(ctx, func(data *model.DataStore) error {
		out = data.Progress.AsYAML()
		return nil
	})
	return out, err
}

// Progress returns a copy of the merged progress.
func (s *Service) Progress(ctx context.Context) (model.Progress, error) {
	var out model.Progress
	err := s.read(ctx, func(data *model.DataStore) error {
		out = data.Progress.Data().Clone()
		return nil
	})
	return out, err
}

// ============================================
// TEAMS AND GROUPS
// ============================================

// Teams returns the current teams and groups.
func (s *Service) Teams(ctx context.Context) (model.TeamsDocument, error) {
	var doc model.TeamsDocument
	err := s.read(ctx, func(data *model.DataStore) error {
		doc = data.Meta.TeamsDocument()
		return nil
	})
	return doc, err
}

// UpdateTeamsAndGroups replaces the teams and groups. Teams renamed in place
// keep their progress; renames are rejected unless meta.yaml allows them.
func (s *Service) UpdateTeamsAndGroups(ctx context.Context, doc model.TeamsDocument) error {
	ctx, span := telemetry.StartDataSpan(ctx, telemetry.SpanTeamsUpdate)
	defer span.End()

	if err := validateTeams(&doc); err != nil {
		return err
	}
	return s.write(ctx, func(data *model.DataStore) error {
		renames := ComputeRenames(data.Meta.Teams, doc.Teams)
		if len(renames) > 0 && !data.Meta.AllowChangeTeamNameInBrowser {
			return ErrRenameNotAllowed
		}

		// Persist before touching memory so a failed write leaves both as they were.
		next := doc.Normalized()
		text, err := next.YAML()
		if err != nil {
			return err
		}
		if len(renames) > 0 {
			if err := s.store.SaveProgress(ctx, renameRecords(data.Progress.Records(), renames)); err != nil {
				return fmt.Errorf("store renamed progress: %w", err)
			}
		}
		if err := s.store.SetSetting(ctx, state.SettingTeams, text); err != nil {
			if len(renames) > 0 {
				if rerr := s.store.SaveProgress(ctx, data.Progress.Records()); rerr != nil {
					logger.ErrorCtx(ctx, "Restoring progress after failed teams update", logger.KeyError, rerr)
				}
			}
			return fmt.Errorf("store teams: %w", err)
		}

		data.Meta.UpdateTeamsAndGroups(next.Teams, next.TeamGroups)
		for oldName, newName := range renames {
			data.Progress.RenameTeam(oldName, newName)
			logger.InfoCtx(ctx, "Team renamed", "from", oldName, "to", newName)
		}

		metrics.RecordTeamsUpdate(s.metrics, "update")
		metrics.SetTeams(s.metrics, len(data.Meta.Teams))
		logger.InfoCtx(ctx, "Teams updated",
			"teams", len(data.Meta.Teams), "groups", len(data.Meta.TeamGroups), "renamed", len(renames))
		return nil
	})
}

func renameRecords(records []model.ProgressRecord, renames map[string]string) []model.ProgressRecord {
	for i, r := range records {
		if to, ok := renames[r.Team]; ok {
			records[i].Team = to
		}
	}
	return records
}

// ResetTeamsAndGroups forgets the edited teams and returns to meta.yaml.
func (s *Service) ResetTeamsAndGroups(ctx context.Context) error {
	ctx, span := telemetry.StartDataSpan(ctx, telemetry.SpanTeamsReset)
	defer span.End()

	return s.write(ctx, func(data *model.DataStore) error {
		if err := s.store.DeleteSetting(ctx, state.SettingTeams); err != nil {
			return fmt.Errorf("delete stored teams: %w", err)
		}
		data.Meta.ResetTeamsAndGroups()
		metrics.RecordTeamsUpdate(s.metrics, "reset")
		metrics.SetTeams(s.metrics, len(data.Meta.Teams))
		logger.InfoCtx(ctx, "Teams reset to meta.yaml")
		return nil
	})
}

// ExportTeamsYAML renders the teams and groups for pasting into meta.yaml.
func (s *Service) ExportTeamsYAML(ctx context.Context) (string, error) {
	var out string
	err := s.read(ctx, func(data *model.DataStore) error {
		var err error
		out, err = data.Meta.TeamsYAML()
		return err
	})
	return out, err
}

// Watch reloads the data under the service lock whenever a local data file
// changes. It blocks until ctx is cancelled.
func (s *Service) Watch(ctx context.Context, debounce time.Duration) error {
	return s.loader.WatchChanges(ctx, debounce, func(ctx context.Context) {
		if _, err := s.Reload(ctx); err != nil {
			logger.WarnCtx(ctx, "Keeping previous data after failed reload", logger.Err(err))
		}
	})
}
