package config

// Config is the persisted settings document. gitboss owns Repositories and
// reads BaseDirectory and MaxDepth; the remaining fields are carried along
// untouched for other parts of the application.
type Config struct {
	Version       string   `yaml:"version" json:"version,omitempty"`
	BaseDirectory string   `yaml:"base_directory" json:"base_directory,omitempty"`
	MaxDepth      *int     `yaml:"max_depth,omitempty" json:"max_depth,omitempty"`
	Repositories  []string `yaml:"repositories" json:"repositories,omitempty"`

	AutoFetchInterval int            `yaml:"auto_fetch_interval" json:"auto_fetch_interval,omitempty"`
	DefaultTheme      string         `yaml:"default_theme" json:"default_theme,omitempty"`
	LastActiveRepo    string         `yaml:"last_active_repo" json:"last_active_repo,omitempty"`
	GitUserName       string         `yaml:"git_user_name" json:"git_user_name,omitempty"`
	GitUserEmail      string         `yaml:"git_user_email" json:"git_user_email,omitempty"`
	Preferences       map[string]any `yaml:"preferences,omitempty" json:"preferences,omitempty"`

	Log LogConfig `yaml:"log,omitempty" json:"log,omitempty"`

	// Extra keeps keys this version does not know about so saves do not drop them
	Extra map[string]any `yaml:",inline" json:"-"`
}

// LogConfig configures logging defaults; CLI flags take precedence
type LogConfig struct {
	Level  string `yaml:"level,omitempty" json:"level,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
}

const (
	// CurrentVersion is written into new documents
	CurrentVersion = "1.0"
	// DefaultMaxDepth is how many levels below the base directory a scan visits
	DefaultMaxDepth = 2
	// DefaultAutoFetchInterval is in minutes
	DefaultAutoFetchInterval = 15
	// DefaultTheme is the theme name used when none is set
	DefaultTheme = "dark"

	legacyRepositoriesKey = "repositories"
)

// Themes lists the accepted DefaultTheme values
var Themes = []string{"dark", "light"}

// DefaultConfig returns a document with every default applied
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Depth returns MaxDepth or the default when unset
func (c *Config) Depth() int {
	if c.MaxDepth == nil {
		return DefaultMaxDepth
	}
	return *c.MaxDepth
}

// SetDepth sets MaxDepth
func (c *Config) SetDepth(depth int) {
	c.MaxDepth = &depth
}

func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	if cfg.AutoFetchInterval == 0 {
		cfg.AutoFetchInterval = DefaultAutoFetchInterval
	}
	if cfg.DefaultTheme == "" {
		cfg.DefaultTheme = DefaultTheme
	}
	migrateLegacyRepositories(cfg)
	if cfg.Repositories == nil {
		cfg.Repositories = []string{}
	}
}

// migrateLegacyRepositories moves preferences.repositories, where older
// documents kept the list, to the top-level field. It only runs on read.
func migrateLegacyRepositories(cfg *Config) {
	raw, ok := cfg.Preferences[legacyRepositoriesKey]
	if !ok {
		return
	}
	delete(cfg.Preferences, legacyRepositoriesKey)
	if len(cfg.Preferences) == 0 {
		cfg.Preferences = nil
	}

	// A top-level list, even an empty one, wins over the legacy location
	items, ok := raw.([]any)
	if !ok || cfg.Repositories != nil {
		return
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			cfg.Repositories = append(cfg.Repositories, s)
		}
	}
}
