// Package migrations exposes the embedded SQL migration tree per dialect and
// registers it with a persistence client.
package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	sdk "github.com/developersupreme/supreme-ai-sdk-sub001"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"

	migrationsPath = "data/sql/migrations"
)

// FilesystemSpec pairs one dialect with its migration filesystem. The
// embedded tree keeps postgres scripts at the root and sqlite overrides under
// sqlite/.
type FilesystemSpec struct {
	Dialect string
	Path    string
	FS      fs.FS
}

type Registration struct {
	SourceLabel       string
	ValidationTargets []string
	Filesystems       []FilesystemSpec
}

type RegisterFunc func(ctx context.Context, dialect string, sourceLabel string, fsys fs.FS) error

type Option func(*Registration)

func WithSourceLabel(label string) Option {
	return func(r *Registration) {
		trimmed := strings.TrimSpace(label)
		if trimmed != "" {
			r.SourceLabel = trimmed
		}
	}
}

// WithValidationTargets narrows registration to the named dialects.
func WithValidationTargets(targets ...string) Option {
	return func(r *Registration) {
		next := make([]string, 0, len(targets))
		for _, target := range targets {
			trimmed := strings.TrimSpace(strings.ToLower(target))
			if trimmed == "" || slices.Contains(next, trimmed) {
				continue
			}
			next = append(next, trimmed)
		}
		if len(next) > 0 {
			r.ValidationTargets = next
		}
	}
}

// Filesystems resolves the per-dialect migration filesystems from the
// embedded tree, or from an explicit root when one is given. Each filesystem
// must contain at least one up migration.
func Filesystems(sources ...fs.FS) ([]FilesystemSpec, error) {
	root := sdk.GetMigrationsFS()
	if len(sources) > 0 && sources[0] != nil {
		root = sources[0]
	}

	base, err := fs.Sub(root, migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("migrations: %s not found: %w", migrationsPath, err)
	}
	sqliteFS, err := fs.Sub(base, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve sqlite filesystem: %w", err)
	}

	filesystems := []FilesystemSpec{
		{Dialect: DialectPostgres, Path: migrationsPath, FS: base},
		{Dialect: DialectSQLite, Path: migrationsPath + "/sqlite", FS: sqliteFS},
	}

	for _, fsys := range filesystems {
		matches, globErr := fs.Glob(fsys.FS, "*.up.sql")
		if globErr != nil {
			return nil, fmt.Errorf("migrations: glob %s %s: %w", fsys.Dialect, fsys.Path, globErr)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("migrations: %s filesystem %q has no *.up.sql files", fsys.Dialect, fsys.Path)
		}
	}

	return filesystems, nil
}

// Register resolves the embedded filesystems and invokes registerFn once per
// validation target.
func Register(ctx context.Context, registerFn RegisterFunc, opts ...Option) (Registration, error) {
	reg := Registration{
		SourceLabel:       "supreme-ai-sdk",
		ValidationTargets: []string{DialectPostgres, DialectSQLite},
	}

	filesystems, err := Filesystems()
	if err != nil {
		return reg, err
	}
	reg.Filesystems = filesystems

	for _, opt := range opts {
		if opt != nil {
			opt(&reg)
		}
	}

	if registerFn == nil {
		return reg, fmt.Errorf("migrations: register function is required")
	}

	for _, fsys := range reg.Filesystems {
		if !slices.Contains(reg.ValidationTargets, fsys.Dialect) {
			continue
		}
		if err := registerFn(ctx, fsys.Dialect, reg.SourceLabel, fsys.FS); err != nil {
			return reg, fmt.Errorf("migrations: register %s (%s): %w", fsys.Dialect, fsys.Path, err)
		}
	}

	return reg, nil
}
