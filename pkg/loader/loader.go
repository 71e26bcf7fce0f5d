// Package loader builds a DataStore from the YAML data files.
//
// Loading starts at meta.yaml, which names the activity files and the team
// progress file. Paths in meta.yaml are relative to meta.yaml itself and may
// not leave its directory. Progress edits persisted outside the YAML files
// are merged last through a StoredState.
package loader

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/marmos91/dsomm/internal/logger"
	"github.com/marmos91/dsomm/internal/telemetry"
	"github.com/marmos91/dsomm/pkg/model"
	"github.com/marmos91/dsomm/pkg/source"
	"github.com/marmos91/dsomm/pkg/yamlload"
)

// DefaultMetaFile is the entry point inside the data source.
const DefaultMetaFile = "meta.yaml"

// historicActivityFile is the pre-v3 generated activity file. Validation
// problems in it are logged but not fatal.
const historicActivityFile = "generated/generated.yaml"

// StoredState supplies edits persisted between runs. Either method may
// return nil when nothing is stored.
type StoredState interface {
	StoredTeams(ctx context.Context) (*model.TeamsDocument, error)
	StoredProgress(ctx context.Context) (model.Progress, error)
}

// Options configures a Service.
type Options struct {
	MetaFile string
	Stored   StoredState

	// Clock overrides the progress store clock, for tests.
	Clock func() time.Time
}

// Service loads and caches the DataStore.
type Service struct {
	src      source.Source
	yaml     *yamlload.Service
	metaFile string
	stored   StoredState
	clock    func() time.Time

	mu   sync.Mutex
	data *model.DataStore
}

func New(src source.Source, opts Options) *Service {
	metaFile := opts.MetaFile
	if metaFile == "" {
		metaFile = DefaultMetaFile
	}
	return &Service{
		src:      src,
		yaml:     yamlload.New(src),
		metaFile: metaFile,
		stored:   opts.Stored,
		clock:    opts.Clock,
	}
}

// Source returns the data source.
func (s *Service) Source() source.Source { return s.src }

// DataStore returns the cached data, or nil before the first successful Load.
func (s *Service) DataStore() *model.DataStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Load returns the cached DataStore, loading it on first use.
func (s *Service) Load(ctx context.Context) (*model.DataStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data != nil {
		return s.data, nil
	}

	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.data = data
	return data, nil
}

// ForceReload drops all cached files and loads again. On failure the
// previously loaded data stays cached.
func (s *Service) ForceReload(ctx context.Context) (*model.DataStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.yaml.ClearCache()
	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.data = data
	return data, nil
}

func (s *Service) load(ctx context.Context) (*model.DataStore, error) {
	ctx, span := telemetry.StartDataSpan(ctx, telemetry.SpanDataLoad, telemetry.Source(s.src.String()))
	defer span.End()
	start := time.Now()

	logger.DebugCtx(ctx, "Loading data", "source", s.src.String(), logger.KeyFile, s.metaFile)

	data := model.NewDataStore()
	if s.clock != nil {
		data.Progress.SetClock(s.clock)
	}

	meta, err := s.loadMeta(ctx)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return nil, err
	}
	data.Meta = meta
	data.Progress.Init(meta.ProgressDefinition)

	activities, err := s.loadActivities(ctx, meta)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return nil, err
	}
	data.AddActivities(activities)
	data.Progress.SetActivityMap(activities.ActivityMap())

	progress, err := s.loadTeamProgress(ctx, meta)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return nil, err
	}
	data.AddProgressData(progress)

	if s.stored != nil {
		stored, err := s.stored.StoredProgress(ctx)
		if err != nil {
			telemetry.RecordError(ctx, err)
			return nil, fmt.Errorf("load stored progress: %w", err)
		}
		data.AddProgressData(stored)
	}

	n := len(activities.AllActivities())
	telemetry.SetAttributes(ctx, telemetry.Activities(n))
	logger.InfoCtx(ctx, "All YAML files loaded",
		logger.KeyActivities, n,
		"teams", len(meta.Teams),
		logger.KeyDurationMs, logger.Duration(start))
	return data, nil
}

func (s *Service) loadMeta(ctx context.Context) (*model.MetaStore, error) {
	ctx, span := telemetry.StartDataSpan(ctx, telemetry.SpanDataMeta, telemetry.File(s.metaFile))
	defer span.End()

	n, err := s.yaml.LoadWithReferencesResolved(ctx, s.metaFile)
	if err != nil {
		return nil, err
	}
	meta, err := model.ParseMeta(n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.metaFile, err)
	}

	if s.stored != nil {
		teams, err := s.stored.StoredTeams(ctx)
		if err != nil {
			return nil, fmt.Errorf("load stored teams: %w", err)
		}
		if teams != nil {
			meta.UpdateTeamsAndGroups(teams.Teams, teams.TeamGroups)
			logger.DebugCtx(ctx, "Applied stored teams", logger.KeyCount, len(teams.Teams))
		}
	}

	if len(meta.ActivityFiles) == 0 {
		return nil, model.ErrMissingActivityFiles
	}
	if meta.TeamProgressFile == "" {
		return nil, model.ErrMissingTeamProgressFile
	}

	if err := RecalculateProgressDefinition(meta.ProgressDefinition); err != nil {
		return nil, err
	}

	meta.FilterGroupMembers()

	if meta.TeamProgressFile, err = yamlload.MakeFullPath(meta.TeamProgressFile, s.metaFile); err != nil {
		return nil, fmt.Errorf("teamProgressFile: %w", err)
	}
	for i, f := range meta.ActivityFiles {
		if meta.ActivityFiles[i], err = yamlload.MakeFullPath(f, s.metaFile); err != nil {
			return nil, fmt.Errorf("activityFiles: %w", err)
		}
	}

	logger.InfoCtx(ctx, "Loaded teams", "teams", strings.Join(meta.Teams, ", "))
	return meta, nil
}

// RecalculateProgressDefinition converts every raw score to a fraction in
// [0, 1] and checks that a 0% and a 100% state exist.
func RecalculateProgressDefinition(defs map[string]model.ProgressDefinition) error {
	var problems []string

	titles := make([]string, 0, len(defs))
	for title := range defs {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	minScore, maxScore := math.Inf(1), math.Inf(-1)
	for _, title := range titles {
		def := defs[title]
		score, err := model.ParseScore(def.RawScore)
		if err != nil {
			problems = append(problems, fmt.Sprintf("The progress value for '%s' is not valid: %v", title, err))
			continue
		}
		if score > 1 || score < 0 {
			problems = append(problems, fmt.Sprintf("The progress value for '%s' must be between 0%% and 100%%", title))
			continue
		}
		def.Score = score
		defs[title] = def
		minScore = math.Min(minScore, score)
		maxScore = math.Max(maxScore, score)
	}

	if minScore != 0 {
		problems = append(problems, "The meta.progressDefinition must specify a name for 0% completed")
	}
	if maxScore != 1 {
		problems = append(problems, "The meta.progressDefinition must specify a name for 100% completed")
	}

	if len(problems) > 0 {
		return newProgressDefinitionError(problems)
	}
	return nil
}

func (s *Service) loadActivities(ctx context.Context, meta *model.MetaStore) (*model.ActivityStore, error) {
	store := model.NewActivityStore()
	var problems []string
	historic := false

	for _, file := range meta.ActivityFiles {
		historic = historic || strings.HasSuffix(file, historicActivityFile)

		fileMeta, doc, err := s.loadActivityFile(ctx, file)
		if err != nil {
			return nil, err
		}

		p, err := store.AddActivityFile(doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		problems = append(problems, p...)

		if fileMeta.NewerThan(meta.ActivityMeta) {
			meta.ActivityMeta = fileMeta
		}

		if len(problems) > 0 {
			for _, p := range problems {
				logger.ErrorCtx(ctx, "Activity validation", logger.KeyFile, file, logger.KeyError, p)
			}
			if !historic {
				return nil, newActivityFileError(file, problems)
			}
		}
	}
	return store, nil
}

// loadActivityFile returns the optional meta document and the activity
// document of an activity file.
func (s *Service) loadActivityFile(ctx context.Context, file string) (*model.ActivityMeta, *yaml.Node, error) {
	ctx, span := telemetry.StartDataSpan(ctx, telemetry.SpanDataActivities, telemetry.File(file))
	defer span.End()

	docs, err := s.yaml.LoadMultiple(ctx, file)
	if err != nil {
		return nil, nil, err
	}

	switch len(docs) {
	case 1:
		return nil, docs[0], nil
	case 2:
		if metaNode, err := yamlload.GetYPath(docs[0], "meta"); err == nil && metaNode.Tag != "!!null" {
			var am model.ActivityMeta
			if err := metaNode.Decode(&am); err != nil {
				return nil, nil, fmt.Errorf("%s: meta: %w", file, err)
			}
			return &am, docs[1], nil
		}
	}
	return nil, nil, fmt.Errorf("the activity file '%s' is expected to contain dimension and activities, with an optional meta document at the start", file)
}

func (s *Service) loadTeamProgress(ctx context.Context, meta *model.MetaStore) (model.Progress, error) {
	ctx, span := telemetry.StartDataSpan(ctx, telemetry.SpanDataProgress, telemetry.File(meta.TeamProgressFile))
	defer span.End()

	n, err := s.yaml.Load(ctx, meta.TeamProgressFile)
	if errors.Is(err, source.ErrNotFound) {
		logger.WarnCtx(ctx, "Team progress file not found, starting empty", logger.KeyFile, meta.TeamProgressFile)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var file model.TeamProgressFile
	if err := n.Decode(&file); err != nil {
		return nil, fmt.Errorf("%s: %w", meta.TeamProgressFile, err)
	}
	return file.Progress, nil
}
