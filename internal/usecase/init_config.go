package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/mfnd/internal/domain"
)

// InitConfigInput contains the input for the InitConfig use case.
type InitConfigInput struct {
	Config *domain.Config // Values to write (nil = defaults)
}

// InitConfigOutput contains the output of the InitConfig use case.
type InitConfigOutput struct {
	Path string // Path to the created config file
}

// InitConfig generates the global configuration file.
type InitConfig struct {
	configManager domain.ConfigManager
}

// NewInitConfig creates a new InitConfig use case.
func NewInitConfig(configManager domain.ConfigManager) *InitConfig {
	return &InitConfig{
		configManager: configManager,
	}
}

// Execute creates a configuration file holding the given values.
func (uc *InitConfig) Execute(_ context.Context, in InitConfigInput) (*InitConfigOutput, error) {
	cfg := in.Config
	if cfg == nil {
		cfg = domain.NewDefaultConfig()
	}
	path, err := uc.configManager.InitGlobalConfig(cfg)
	if err != nil {
		if path != "" {
			return nil, fmt.Errorf("%w: %s", err, path)
		}
		return nil, err
	}
	return &InitConfigOutput{Path: path}, nil
}
