package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultParentTimeoutMS          = 3000
	DefaultTokenRefreshIntervalMS   = 600000
	DefaultBalanceRefreshIntervalMS = 30000
	DefaultUserStateTimeoutMS       = 5000
	DefaultStoragePrefix            = "supreme_ai"
)

type FeaturesConfig struct {
	Credits  bool `koanf:"credits" mapstructure:"credits"`
	Personas bool `koanf:"personas" mapstructure:"personas"`
}

type Config struct {
	APIBaseURL               string         `koanf:"api_base_url" mapstructure:"api_base_url"`
	AuthURL                  string         `koanf:"auth_url" mapstructure:"auth_url"`
	StoragePrefix            string         `koanf:"storage_prefix" mapstructure:"storage_prefix"`
	Mode                     string         `koanf:"mode" mapstructure:"mode"`
	ParentTimeoutMS          int64          `koanf:"parent_timeout_ms" mapstructure:"parent_timeout_ms"`
	TokenRefreshIntervalMS   int64          `koanf:"token_refresh_interval_ms" mapstructure:"token_refresh_interval_ms"`
	BalanceRefreshIntervalMS int64          `koanf:"balance_refresh_interval_ms" mapstructure:"balance_refresh_interval_ms"`
	UserStateTimeoutMS       int64          `koanf:"user_state_timeout_ms" mapstructure:"user_state_timeout_ms"`
	AllowedOrigins           []string       `koanf:"allowed_origins" mapstructure:"allowed_origins"`
	AutoInit                 bool           `koanf:"auto_init" mapstructure:"auto_init"`
	Features                 FeaturesConfig `koanf:"features" mapstructure:"features"`
}

func DefaultConfig() Config {
	return Config{
		StoragePrefix:            DefaultStoragePrefix,
		Mode:                     string(ModeAuto),
		ParentTimeoutMS:          DefaultParentTimeoutMS,
		TokenRefreshIntervalMS:   DefaultTokenRefreshIntervalMS,
		BalanceRefreshIntervalMS: DefaultBalanceRefreshIntervalMS,
		UserStateTimeoutMS:       DefaultUserStateTimeoutMS,
		AutoInit:                 true,
		Features: FeaturesConfig{
			Credits:  true,
			Personas: true,
		},
	}
}

func (c Config) Validate() error {
	if _, ok := ParseMode(c.Mode); !ok {
		return fmt.Errorf("core: mode must be one of auto, embedded, standalone; got %q", c.Mode)
	}
	if c.ParentTimeoutMS < 0 {
		return fmt.Errorf("core: parent_timeout_ms must not be negative")
	}
	if c.TokenRefreshIntervalMS < 0 {
		return fmt.Errorf("core: token_refresh_interval_ms must not be negative")
	}
	if c.BalanceRefreshIntervalMS < 0 {
		return fmt.Errorf("core: balance_refresh_interval_ms must not be negative")
	}
	if c.UserStateTimeoutMS < 0 {
		return fmt.Errorf("core: user_state_timeout_ms must not be negative")
	}
	return nil
}

func (c Config) ResolvedMode() Mode {
	mode, _ := ParseMode(c.Mode)
	return mode
}

func (c Config) ParentWait() time.Duration {
	if c.ParentTimeoutMS <= 0 {
		return DefaultParentTimeoutMS * time.Millisecond
	}
	return time.Duration(c.ParentTimeoutMS) * time.Millisecond
}

// RefreshInterval returns zero when the periodic refresh is disabled.
func (c Config) RefreshInterval() time.Duration {
	if c.TokenRefreshIntervalMS <= 0 {
		return 0
	}
	return time.Duration(c.TokenRefreshIntervalMS) * time.Millisecond
}

// BalancePollInterval returns zero when the periodic balance poll is disabled.
func (c Config) BalancePollInterval() time.Duration {
	if c.BalanceRefreshIntervalMS <= 0 {
		return 0
	}
	return time.Duration(c.BalanceRefreshIntervalMS) * time.Millisecond
}

func (c Config) UserStateWait() time.Duration {
	if c.UserStateTimeoutMS <= 0 {
		return DefaultUserStateTimeoutMS * time.Millisecond
	}
	return time.Duration(c.UserStateTimeoutMS) * time.Millisecond
}

func (c Config) StorageKey() string {
	prefix := strings.TrimSpace(c.StoragePrefix)
	if prefix == "" {
		prefix = DefaultStoragePrefix
	}
	return prefix + "_auth"
}
