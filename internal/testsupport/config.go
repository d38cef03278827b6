package testsupport

import (
	"path/filepath"
	"testing"

	"wadshelf/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Logging.Console = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithRecentLimit overrides how many records the recent view keeps.
func WithRecentLimit(limit int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Views.RecentLimit = limit
	}
}

// WithSearchFields overrides the fields free-text search matches against.
func WithSearchFields(names ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Views.SearchFields = names
	}
}

// WithIncludeBase keeps base records in every view.
func WithIncludeBase() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Views.ExcludeBase = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
