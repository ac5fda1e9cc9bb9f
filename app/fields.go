// Package app provides application services that orchestrate domain logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/artpar/themedesigner/domain/field"
	"github.com/artpar/themedesigner/domain/settings"
	"github.com/artpar/themedesigner/ports"
	"github.com/rs/zerolog"
)

// ErrNoRecordID is returned when a save targets an empty record ID.
var ErrNoRecordID = errors.New("record id is required")

// Recorder receives save outcomes for metrics. Optional.
type Recorder interface {
	FieldChanged(manager, fieldName string, c field.Change)
	SettingsSaved(result string)
	ConflictResolved(rule settings.Rule)
}

// FieldDeps contains dependencies for FieldService.
type FieldDeps struct {
	Meta     ports.MetaStore
	IDGen    ports.IDGenerator
	Recorder Recorder
	Logger   zerolog.Logger
}

// FieldService saves and reads per-record field values.
type FieldService struct {
	meta     ports.MetaStore
	idGen    ports.IDGenerator
	recorder Recorder
	logger   zerolog.Logger

	// Hot-reloadable: swapped when the config changes.
	registry atomic.Pointer[field.Registry]
}

// NewFieldService creates a field service serving the managers in reg.
func NewFieldService(deps FieldDeps, reg *field.Registry) *FieldService {
	s := &FieldService{
		meta:     deps.Meta,
		idGen:    deps.IDGen,
		recorder: deps.Recorder,
		logger:   deps.Logger,
	}
	if reg == nil {
		reg, _ = field.NewRegistry()
	}
	s.registry.Store(reg)
	return s
}

// SetRegistry replaces the served managers.
func (s *FieldService) SetRegistry(reg *field.Registry) {
	s.registry.Store(reg)
	s.logger.Info().Int("managers", len(reg.List())).Msg("field managers reloaded")
}

// Managers returns the configured managers in registration order.
func (s *FieldService) Managers() []*field.Manager {
	return s.registry.Load().List()
}

// Manager returns a manager by name.
func (s *FieldService) Manager(name string) (*field.Manager, error) {
	return s.registry.Load().Get(name)
}

// SaveSetting stores the posted value of one setting for a record.
// It reads the stored value once and writes at most once.
func (s *FieldService) SaveSetting(ctx context.Context, recordID string, st field.Setting, posted field.Posted) (field.Result, error) {
	name := st.Name()

	old, err := s.meta.Get(ctx, recordID, name)
	if err != nil {
		return field.Result{}, fmt.Errorf("get %s: %w", name, err)
	}

	value := st.PostedValue(posted)
	change := field.Decide(old, value)

	switch change {
	case field.ChangeDelete:
		if err := s.meta.Delete(ctx, recordID, name); err != nil {
			return field.Result{}, fmt.Errorf("delete %s: %w", name, err)
		}
	case field.ChangeSet:
		if err := s.meta.Set(ctx, recordID, name, value); err != nil {
			return field.Result{}, fmt.Errorf("set %s: %w", name, err)
		}
	}

	if change != field.ChangeNone {
		s.logger.Debug().
			Str("record_id", recordID).
			Str("manager", st.Manager().Name()).
			Str("field", name).
			Str("change", change.String()).
			Msg("field saved")
	}
	if s.recorder != nil {
		s.recorder.FieldChanged(st.Manager().Name(), name, change)
	}

	return field.Result{Name: name, Change: change, Value: value}, nil
}

// Save stores every setting of the named manager, in registration order.
// The first store error stops the save.
func (s *FieldService) Save(ctx context.Context, managerName, recordID string, posted field.Posted) ([]field.Result, error) {
	if recordID == "" {
		return nil, ErrNoRecordID
	}
	m, err := s.Manager(managerName)
	if err != nil {
		return nil, err
	}

	results := make([]field.Result, 0, len(m.Settings()))
	for _, st := range m.Settings() {
		r, err := s.SaveSetting(ctx, recordID, st, posted)
		if err != nil {
			s.logger.Error().Err(err).
				Str("record_id", recordID).
				Str("manager", managerName).
				Msg("field save failed")
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

// SaveNew saves posted input under a freshly generated record ID.
func (s *FieldService) SaveNew(ctx context.Context, managerName string, posted field.Posted) (string, []field.Result, error) {
	if s.idGen == nil {
		return "", nil, errors.New("no id generator configured")
	}
	recordID := s.idGen.New()
	results, err := s.Save(ctx, managerName, recordID, posted)
	return recordID, results, err
}

// Values returns the stored value of every setting of a manager for a record,
// read with a single List. Settings with nothing stored map to "". Values
// stored under names the manager does not declare are left out.
func (s *FieldService) Values(ctx context.Context, managerName, recordID string) (map[string]string, error) {
	m, err := s.Manager(managerName)
	if err != nil {
		return nil, err
	}

	stored, err := s.meta.List(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", recordID, err)
	}

	values := make(map[string]string, len(m.Settings()))
	for _, st := range m.Settings() {
		values[st.Name()] = stored[st.Name()]
	}
	return values, nil
}
