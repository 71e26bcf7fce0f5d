package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/marmos91/dsomm/internal/logger"
	"github.com/marmos91/dsomm/pkg/model"
	"github.com/marmos91/dsomm/pkg/state"
	"github.com/marmos91/dsomm/pkg/views"
)

// Settings are the display preferences shared by every page.
type Settings struct {
	// MaxLevel caps the maturity level shown; 0 shows every level.
	MaxLevel   int    `json:"maxLevel" yaml:"maxLevel"`
	DateFormat string `json:"dateFormat" yaml:"dateFormat"`
}

// Settings returns the stored preferences with defaults filled in.
func (s *Service) Settings(ctx context.Context) (Settings, error) {
	out := Settings{DateFormat: views.DefaultDateLayout}

	v, err := s.getSetting(ctx, state.SettingMaxLevel)
	if err != nil {
		return out, err
	}
	if v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			logger.WarnCtx(ctx, "Ignoring stored max level", logger.KeyKey, state.SettingMaxLevel, logger.Err(err))
		} else {
			out.MaxLevel = n
		}
	}

	v, err = s.getSetting(ctx, state.SettingDateFormat)
	if err != nil {
		return out, err
	}
	if v != "" {
		out.DateFormat = v
	}
	return out, nil
}

// SetSettings validates and stores the preferences.
func (s *Service) SetSettings(ctx context.Context, in Settings) error {
	if err := s.validateMaxLevel(ctx, in.MaxLevel); err != nil {
		return err
	}
	if in.DateFormat == "" {
		in.DateFormat = views.DefaultDateLayout
	}
	if err := validateDateFormat(in.DateFormat); err != nil {
		return err
	}
	if err := s.store.SetSetting(ctx, state.SettingMaxLevel, strconv.Itoa(in.MaxLevel)); err != nil {
		return err
	}
	return s.store.SetSetting(ctx, state.SettingDateFormat, in.DateFormat)
}

func (s *Service) validateMaxLevel(ctx context.Context, level int) error {
	return s.read(ctx, func(data *model.DataStore) error {
		if level < 0 || level > data.MaxLevel() {
			return fmt.Errorf("%w: max level must be between 0 and %d", ErrInvalidSettingValue, data.MaxLevel())
		}
		return nil
	})
}

// validateDateFormat rejects layouts without any date element, which would
// print the same text for every date.
func validateDateFormat(layout string) error {
	ref := time.Date(2024, 11, 30, 0, 0, 0, 0, time.UTC)
	if strings.TrimSpace(layout) == "" || ref.Format(layout) == layout {
		return fmt.Errorf("%w: date format %q has no date elements", ErrInvalidSettingValue, layout)
	}
	return nil
}

// ReportConfig returns the stored report configuration, or the default one.
func (s *Service) ReportConfig(ctx context.Context) (views.ReportConfig, error) {
	cfg := views.DefaultReportConfig()
	v, err := s.getSetting(ctx, state.SettingReport)
	if err != nil {
		return cfg, err
	}
	if v != "" {
		var stored views.ReportConfig
		if err := json.Unmarshal([]byte(v), &stored); err != nil {
			logger.WarnCtx(ctx, "Ignoring stored report config", logger.KeyKey, state.SettingReport, logger.Err(err))
		} else {
			cfg = stored
		}
	}
	if cfg.DateFormat == "" {
		prefs, err := s.Settings(ctx)
		if err != nil {
			return cfg, err
		}
		cfg.DateFormat = prefs.DateFormat
	}
	return cfg, nil
}

// SetReportConfig validates cfg against the loaded data and stores it.
func (s *Service) SetReportConfig(ctx context.Context, cfg views.ReportConfig) error {
	if err := s.read(ctx, func(data *model.DataStore) error {
		if err := cfg.Validate(data); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSettingValue, err)
		}
		return nil
	}); err != nil {
		return err
	}
	if cfg.DateFormat != "" {
		if err := validateDateFormat(cfg.DateFormat); err != nil {
			return err
		}
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return s.store.SetSetting(ctx, state.SettingReport, string(b))
}

// MatrixFilters returns the stored matrix chip selection.
func (s *Service) MatrixFilters(ctx context.Context) (views.MatrixSelection, error) {
	var sel views.MatrixSelection
	v, err := s.getSetting(ctx, state.SettingMatrixFilters)
	if err != nil || v == "" {
		return sel, err
	}
	if err := json.Unmarshal([]byte(v), &sel); err != nil {
		logger.WarnCtx(ctx, "Ignoring stored matrix filters", logger.KeyKey, state.SettingMatrixFilters, logger.Err(err))
		return views.MatrixSelection{}, nil
	}
	return sel, nil
}

// SetMatrixFilters stores the matrix chip selection. An empty selection
// deletes the stored one.
func (s *Service) SetMatrixFilters(ctx context.Context, sel views.MatrixSelection) error {
	if len(sel.Tags) == 0 && len(sel.Dimensions) == 0 {
		return s.store.DeleteSetting(ctx, state.SettingMatrixFilters)
	}
	b, err := json.Marshal(sel)
	if err != nil {
		return err
	}
	return s.store.SetSetting(ctx, state.SettingMatrixFilters, string(b))
}

func (s *Service) getSetting(ctx context.Context, key string) (string, error) {
	v, err := s.store.GetSetting(ctx, key)
	if errors.Is(err, state.ErrSettingNotFound) {
		return "", nil
	}
	return v, err
}

// ============================================
// RAW SETTINGS
// ============================================

// Setting returns a raw stored value.
func (s *Service) Setting(ctx context.Context, key string) (string, error) {
	return s.store.GetSetting(ctx, key)
}

// ListSettings returns every stored setting ordered by key.
func (s *Service) ListSettings(ctx context.Context) ([]state.Setting, error) {
	return s.store.ListSettings(ctx)
}

// SetSetting stores a raw value. Known keys are decoded and go through the
// same validation as their typed setters.
func (s *Service) SetSetting(ctx context.Context, key, value string) error {
	switch key {
	case state.SettingTeams:
		var doc model.TeamsDocument
		if err := yaml.Unmarshal([]byte(value), &doc); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSettingValue, err)
		}
		return s.UpdateTeamsAndGroups(ctx, doc)

	case state.SettingReport:
		var cfg views.ReportConfig
		if err := json.Unmarshal([]byte(value), &cfg); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSettingValue, err)
		}
		return s.SetReportConfig(ctx, cfg)

	case state.SettingMatrixFilters:
		var sel views.MatrixSelection
		if err := json.Unmarshal([]byte(value), &sel); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSettingValue, err)
		}
		return s.SetMatrixFilters(ctx, sel)

	case state.SettingMaxLevel:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSettingValue, err)
		}
		if err := s.validateMaxLevel(ctx, n); err != nil {
			return err
		}
		return s.store.SetSetting(ctx, key, strconv.Itoa(n))

	case state.SettingDateFormat:
		if err := validateDateFormat(value); err != nil {
			return err
		}
		return s.store.SetSetting(ctx, key, value)
	}

	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidSettingValue)
	}
	return s.store.SetSetting(ctx, key, value)
}

// DeleteSetting removes a stored value. Deleting the teams setting resets
// the teams to meta.yaml.
func (s *Service) DeleteSetting(ctx context.Context, key string) error {
	if key == state.SettingTeams {
		return s.ResetTeamsAndGroups(ctx)
	}
	return s.store.DeleteSetting(ctx, key)
}
