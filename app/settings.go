package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/artpar/themedesigner/domain/settings"
	"github.com/artpar/themedesigner/ports"
	"github.com/rs/zerolog"
)

// SettingsDeps contains dependencies for SettingsService.
type SettingsDeps struct {
	Store    ports.SettingsStore
	Markup   settings.Markup
	Recorder Recorder
	Logger   zerolog.Logger
}

// SettingsService validates, persists and caches the global options blob.
type SettingsService struct {
	store    ports.SettingsStore
	markup   settings.Markup
	recorder Recorder
	logger   zerolog.Logger

	mu    sync.RWMutex
	cache settings.Options
}

// NewSettingsService creates a new settings service holding the defaults
// until Load is called.
func NewSettingsService(deps SettingsDeps) *SettingsService {
	return &SettingsService{
		store:    deps.Store,
		markup:   deps.Markup,
		recorder: deps.Recorder,
		logger:   deps.Logger,
		cache:    settings.Defaults(),
	}
}

// Load reads the stored blob into the cache. A missing blob leaves the
// defaults in place. Keys absent from the blob keep their defaults.
func (s *SettingsService) Load(ctx context.Context) error {
	stored, err := s.store.Get(ctx, settings.OptionName)
	if errors.Is(err, ports.ErrNotFound) {
		s.mu.Lock()
		s.cache = settings.Defaults()
		s.mu.Unlock()
		s.logger.Info().Msg("no stored settings, using defaults")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	opts := settings.Defaults()
	if err := json.Unmarshal([]byte(stored.Value), &opts); err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}

	s.mu.Lock()
	s.cache = opts
	s.mu.Unlock()

	s.logger.Info().Time("updated_at", stored.UpdatedAt).Msg("settings loaded from database")
	return nil
}

// Get returns the cached options.
func (s *SettingsService) Get() settings.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache
}

// Validate normalizes a submitted form without persisting it.
func (s *SettingsService) Validate(raw settings.Settings) (settings.Options, settings.Resolution) {
	return settings.ValidateWithReport(raw, s.markup)
}

// Update validates raw, stores the result as one blob, then replaces the
// cache. On a store error the cache is left unchanged.
func (s *SettingsService) Update(ctx context.Context, raw settings.Settings) (settings.Options, settings.Resolution, error) {
	opts, res := s.Validate(raw)

	for _, rule := range res.Applied {
		s.logger.Debug().Str("rule", string(rule)).Msg("permalink conflict resolved")
		if s.recorder != nil {
			s.recorder.ConflictResolved(rule)
		}
	}

	blob, err := json.Marshal(opts)
	if err != nil {
		s.saved("error")
		return settings.Options{}, res, fmt.Errorf("encode settings: %w", err)
	}
	if err := s.store.Set(ctx, settings.OptionName, string(blob)); err != nil {
		s.saved("error")
		s.logger.Error().Err(err).Msg("settings save failed")
		return settings.Options{}, res, fmt.Errorf("save settings: %w", err)
	}

	s.mu.Lock()
	s.cache = opts
	s.mu.Unlock()

	s.saved("ok")
	s.logger.Info().Int("conflicts", len(res.Applied)).Msg("settings saved")
	return opts, res, nil
}

// Reset deletes the stored blob and puts the defaults back in the cache.
func (s *SettingsService) Reset(ctx context.Context) (settings.Options, error) {
	if err := s.store.Delete(ctx, settings.OptionName); err != nil {
		s.logger.Error().Err(err).Msg("settings reset failed")
		return settings.Options{}, fmt.Errorf("reset settings: %w", err)
	}

	defaults := settings.Defaults()
	s.mu.Lock()
	s.cache = defaults
	s.mu.Unlock()

	s.saved("reset")
	s.logger.Info().Msg("settings reset to defaults")
	return defaults, nil
}

func (s *SettingsService) saved(result string) {
	if s.recorder != nil {
		s.recorder.SettingsSaved(result)
	}
}
