package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/marmos91/dsomm/internal/logger"
	"github.com/marmos91/dsomm/internal/telemetry"
	"github.com/marmos91/dsomm/pkg/model"
)

// Key namespace:
//
//	progress/<uuid>/<team>/<title>   progressValue (JSON)
//	settings/<key>                   Setting (JSON)
//
// Path components are URL path escaped so team names may contain slashes.
const (
	prefixProgress = "progress/"
	prefixSettings = "settings/"
)

func keyProgress(activityUUID, team, title string) []byte {
	return []byte(prefixProgress + url.PathEscape(activityUUID) + "/" + url.PathEscape(team) + "/" + url.PathEscape(title))
}

func keyTeamProgressPrefix(activityUUID, team string) []byte {
	return []byte(prefixProgress + url.PathEscape(activityUUID) + "/" + url.PathEscape(team) + "/")
}

func keySetting(key string) []byte {
	return []byte(prefixSettings + key)
}

type progressValue struct {
	ActivityUUID string    `json:"activity_uuid"`
	Team         string    `json:"team"`
	Title        string    `json:"title"`
	AchievedOn   time.Time `json:"achieved_on"`
}

// BadgerStore implements Store on an embedded BadgerDB.
type BadgerStore struct {
	db *badgerdb.DB
}

// NewBadger opens (or creates) the database.
func NewBadger(cfg BadgerConfig) (*BadgerStore, error) {
	var opts badgerdb.Options
	if cfg.InMemory {
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		opts = badgerdb.DefaultOptions(cfg.Path)
	}
	opts = opts.WithLogger(nil)

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	logger.Debug("State store opened", logger.KeyStore, string(DatabaseTypeBadger), "path", cfg.Path)
	return &BadgerStore{db: db}, nil
}

// scanKeys collects the keys under prefix.
func scanKeys(txn *badgerdb.Txn, prefix []byte) [][]byte {
	opts := badgerdb.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false

	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Rewind(); it.Valid(); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}

func deletePrefix(txn *badgerdb.Txn, prefix []byte) error {
	for _, k := range scanKeys(txn, prefix) {
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func putRecords(txn *badgerdb.Txn, records []model.ProgressRecord) error {
	for _, r := range records {
		v, err := json.Marshal(progressValue{
			ActivityUUID: r.ActivityUUID,
			Team:         r.Team,
			Title:        r.Title,
			AchievedOn:   model.DateOnly(r.Date),
		})
		if err != nil {
			return err
		}
		if err := txn.Set(keyProgress(r.ActivityUUID, r.Team, r.Title), v); err != nil {
			return err
		}
	}
	return nil
}

// ============================================
// PROGRESS OPERATIONS
// ============================================

func (s *BadgerStore) LoadProgress(ctx context.Context) ([]model.ProgressRecord, error) {
	ctx, span := telemetry.StartStoreSpan(ctx, telemetry.SpanStoreLoad, string(DatabaseTypeBadger))
	defer span.End()

	var out []model.ProgressRecord
	err := s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(prefixProgress)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := it.Item().Value(func(val []byte) error {
				var pv progressValue
				if err := json.Unmarshal(val, &pv); err != nil {
					return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
				}
				out = append(out, model.ProgressRecord{
					ActivityUUID: pv.ActivityUUID,
					Team:         pv.Team,
					Title:        pv.Title,
					Date:         model.DateOnly(pv.AchievedOn),
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(ctx, err)
		return nil, fmt.Errorf("load progress: %w", err)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ActivityUUID != b.ActivityUUID {
			return a.ActivityUUID < b.ActivityUUID
		}
		if a.Team != b.Team {
			return a.Team < b.Team
		}
		return a.Date.Before(b.Date)
	})
	return out, nil
}

func (s *BadgerStore) SaveProgress(ctx context.Context, records []model.ProgressRecord) error {
	ctx, span := telemetry.StartStoreSpan(ctx, telemetry.SpanStoreSave, string(DatabaseTypeBadger))
	defer span.End()

	err := s.db.Update(func(txn *badgerdb.Txn) error {
		if err := deletePrefix(txn, []byte(prefixProgress)); err != nil {
			return err
		}
		return putRecords(txn, records)
	})
	if err != nil {
		telemetry.RecordError(ctx, err)
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (s *BadgerStore) ReplaceTeamProgress(ctx context.Context, activityUUID, team string, records []model.ProgressRecord) error {
	ctx, span := telemetry.StartStoreSpan(ctx, telemetry.SpanStoreSave, string(DatabaseTypeBadger))
	defer span.End()

	err := s.db.Update(func(txn *badgerdb.Txn) error {
		if err := deletePrefix(txn, keyTeamProgressPrefix(activityUUID, team)); err != nil {
			return err
		}
		return putRecords(txn, records)
	})
	if err != nil {
		telemetry.RecordError(ctx, err)
		return fmt.Errorf("save progress of %s/%s: %w", activityUUID, team, err)
	}
	return nil
}

func (s *BadgerStore) DeleteProgress(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badgerdb.Txn) error {
		return deletePrefix(txn, []byte(prefixProgress))
	})
}

// ============================================
// SETTINGS OPERATIONS
// ============================================

func (s *BadgerStore) GetSetting(ctx context.Context, key string) (string, error) {
	var setting Setting
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(keySetting(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &setting)
		})
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return "", ErrSettingNotFound
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

func (s *BadgerStore) SetSetting(ctx context.Context, key, value string) error {
	v, err := json.Marshal(Setting{Key: key, Value: value, UpdatedAt: time.Now()})
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(keySetting(key), v)
	})
}

func (s *BadgerStore) DeleteSetting(ctx context.Context, key string) error {
	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(keySetting(key))
	})
}

func (s *BadgerStore) ListSettings(ctx context.Context) ([]Setting, error) {
	out := []Setting{}
	err := s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(prefixSettings)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var st Setting
				if err := json.Unmarshal(val, &st); err != nil {
					return err
				}
				out = append(out, st)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

// ============================================
// HEALTH & LIFECYCLE
// ============================================

func (s *BadgerStore) Healthcheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return ErrClosed
	}
	if err := s.db.View(func(*badgerdb.Txn) error { return nil }); err != nil {
		return fmt.Errorf("healthcheck failed: %w", err)
	}
	return nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

var _ Store = (*BadgerStore)(nil)
