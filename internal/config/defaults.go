package config

const (
	defaultDataDir        = "~/.local/share/wadshelf"
	defaultLogDir         = "~/.local/share/wadshelf/logs"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultView           = "local"
	defaultRecentLimit    = 30
	defaultDateFormat     = "2006-01-02"
	defaultStoreTimeout   = 10
	defaultDatabaseName   = "catalog.db"
	defaultLibraryName    = "library"
	defaultConfigLocation = "~/.config/wadshelf/config.toml"
	projectConfigName     = "wadshelf.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Views: Views{
			DefaultView:  defaultView,
			RecentLimit:  defaultRecentLimit,
			ExcludeBase:  true,
			SearchFields: nil,
		},
		Display: Display{
			DateFormat: defaultDateFormat,
		},
		Store: Store{
			TimeoutSeconds: defaultStoreTimeout,
		},
	}
}
