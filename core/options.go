package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-config/cfgx"
	opts "github.com/goliatone/go-options"
)

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}

type staticRawConfigLoader struct {
	Values map[string]any
}

func (l staticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

// StaticRawConfigLoader serves a fixed raw map, useful for embedding host
// pages that inject configuration as a JSON blob.
func StaticRawConfigLoader(values map[string]any) RawConfigLoader {
	return staticRawConfigLoader{Values: values}
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = staticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	cfg, err := cfgx.Build[Config](raw,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// GoOptionsResolver merges defaults, loaded configuration, and runtime
// overrides as layered scopes with increasing precedence.
type GoOptionsResolver struct{}

func (GoOptionsResolver) Resolve(defaults Config, loaded Config, runtime Config) (Config, error) {
	// The loaded config is defaults plus explicit overrides, so zero values
	// in it are intentional and must survive the merge. Runtime overrides are
	// a bare struct where zero means unset.
	defaultLayer := configToLayerMap(defaults, true)
	loadedLayer := configToLayerMap(loaded, true)
	runtimeLayer := configToLayerMap(runtime, false)

	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			defaultLayer,
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			loadedLayer,
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			runtimeLayer,
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return Config{}, fmt.Errorf("core: options stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, fmt.Errorf("core: options merge failed: %w", err)
	}
	resolved, err := cfgx.Build[Config](merged.Value,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	if err := resolved.Validate(); err != nil {
		return Config{}, err
	}
	return resolved, nil
}

func configToLayerMap(cfg Config, includeZero bool) map[string]any {
	layer := map[string]any{}
	if includeZero || strings.TrimSpace(cfg.APIBaseURL) != "" {
		layer["api_base_url"] = cfg.APIBaseURL
	}
	if includeZero || strings.TrimSpace(cfg.AuthURL) != "" {
		layer["auth_url"] = cfg.AuthURL
	}
	if includeZero || strings.TrimSpace(cfg.StoragePrefix) != "" {
		layer["storage_prefix"] = cfg.StoragePrefix
	}
	if includeZero || strings.TrimSpace(cfg.Mode) != "" {
		layer["mode"] = cfg.Mode
	}
	if includeZero || cfg.ParentTimeoutMS > 0 {
		layer["parent_timeout_ms"] = cfg.ParentTimeoutMS
	}
	if includeZero || cfg.TokenRefreshIntervalMS > 0 {
		layer["token_refresh_interval_ms"] = cfg.TokenRefreshIntervalMS
	}
	if includeZero || cfg.BalanceRefreshIntervalMS > 0 {
		layer["balance_refresh_interval_ms"] = cfg.BalanceRefreshIntervalMS
	}
	if includeZero || cfg.UserStateTimeoutMS > 0 {
		layer["user_state_timeout_ms"] = cfg.UserStateTimeoutMS
	}
	if includeZero || len(cfg.AllowedOrigins) > 0 {
		layer["allowed_origins"] = append([]string(nil), cfg.AllowedOrigins...)
	}
	if includeZero || cfg.AutoInit {
		layer["auto_init"] = cfg.AutoInit
	}
	if includeZero || cfg.Features.Credits || cfg.Features.Personas {
		layer["features"] = map[string]any{
			"credits":  cfg.Features.Credits,
			"personas": cfg.Features.Personas,
		}
	}
	return layer
}

// ResolveConfig runs the full defaults -> provider -> runtime resolution chain.
func ResolveConfig(ctx context.Context, provider ConfigProvider, resolver OptionsResolver, runtime Config) (Config, error) {
	defaults := DefaultConfig()
	if provider == nil {
		provider = NewCfgxConfigProvider(nil)
	}
	if resolver == nil {
		resolver = GoOptionsResolver{}
	}
	loaded, err := provider.Load(ctx, defaults)
	if err != nil {
		return Config{}, MapSDKError(err)
	}
	resolved, err := resolver.Resolve(defaults, loaded, runtime)
	if err != nil {
		return Config{}, MapSDKError(err)
	}
	return resolved, nil
}
