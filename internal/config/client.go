package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sethvargo/go-envconfig"
)

// ClientConfig configures the command-line client.
type ClientConfig struct {
	ServerURL string `env:"JOBTRACKR_URL, default=http://localhost:8080"`
	// Home holds the persisted session. Defaults to ~/.jobtrackr.
	Home string `env:"JOBTRACKR_HOME"`
}

// LoadClient reads client configuration from the process environment.
func LoadClient(ctx context.Context) (*ClientConfig, error) {
	return loadClient(ctx, envconfig.OsLookuper())
}

func loadClient(ctx context.Context, l envconfig.Lookuper) (*ClientConfig, error) {
	var cfg ClientConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	if cfg.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locating home directory: %w", err)
		}
		cfg.Home = filepath.Join(home, ".jobtrackr")
	}
	return &cfg, nil
}
