package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/mfnd/internal/domain"
)

// PumpkinStore is the part of the store that holds the daily reset time.
type PumpkinStore interface {
	PumpkinTime(ctx context.Context) (domain.PumpkinTime, error)
	ConfigurePumpkinTime(ctx context.Context, p domain.PumpkinTime) error
}

// ConfigurePumpkinInput contains the parameters for setting the reset time.
type ConfigurePumpkinInput struct {
	Time string // HHMM, 24-hour (empty = only report the current value)
}

// ConfigurePumpkinOutput contains the reset time now in effect.
type ConfigurePumpkinOutput struct {
	Previous domain.PumpkinTime
	Current  domain.PumpkinTime
	Changed  bool
}

// ConfigurePumpkin is the use case for reading or setting the pumpkin time.
type ConfigurePumpkin struct {
	store  PumpkinStore
	logger domain.Logger
}

// NewConfigurePumpkin creates a new ConfigurePumpkin use case.
func NewConfigurePumpkin(store PumpkinStore, logger domain.Logger) *ConfigurePumpkin {
	return &ConfigurePumpkin{
		store:  store,
		logger: logger,
	}
}

// Execute validates and persists the new reset time.
func (uc *ConfigurePumpkin) Execute(ctx context.Context, in ConfigurePumpkinInput) (*ConfigurePumpkinOutput, error) {
	prev, err := uc.store.PumpkinTime(ctx)
	if err != nil {
		return nil, fmt.Errorf("read pumpkin time: %w", err)
	}
	if in.Time == "" {
		return &ConfigurePumpkinOutput{Previous: prev, Current: prev}, nil
	}

	p, err := domain.ParsePumpkinTime(in.Time)
	if err != nil {
		return nil, err
	}
	if err := uc.store.ConfigurePumpkinTime(ctx, p); err != nil {
		return nil, fmt.Errorf("configure pumpkin time: %w", err)
	}
	uc.logger.Info("pumpkin", fmt.Sprintf("reset time %s -> %s", prev.Display(), p.Display()))
	return &ConfigurePumpkinOutput{Previous: prev, Current: p, Changed: prev != p}, nil
}
