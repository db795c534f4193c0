package gateway

import "time"

// Config holds HTTP gateway configuration.
type Config struct {
	Bind            string        `yaml:"bind"`
	Auth            AuthConfig    `yaml:"auth"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// QueryTimeout bounds a single agent run, sync or async.
	QueryTimeout time.Duration `yaml:"query_timeout"`

	// TaskRetention is how long finished async tasks stay queryable
	// before the cleanup job removes them.
	TaskRetention time.Duration `yaml:"task_retention"`

	// CleanupSchedule is a five-field cron expression for the task
	// cleanup job. Empty uses the job's default.
	CleanupSchedule string `yaml:"cleanup_schedule"`

	// AllowedModels restricts which models agent records may name.
	// Empty accepts any model.
	AllowedModels []string `yaml:"allowed_models"`
}

// defaults fills zero values with sensible defaults.
func (c *Config) defaults() {
	if c.Bind == "" {
		c.Bind = "127.0.0.1:8080"
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 10 * time.Second
	}
	// Agent runs can take many provider round-trips, so the write
	// timeout must cover a whole synchronous query.
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 3 * time.Minute
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
	if c.QueryTimeout <= 0 {
		c.QueryTimeout = 2 * time.Minute
	}
	if c.TaskRetention <= 0 {
		c.TaskRetention = time.Hour
	}
}

// AuthConfig configures authentication for admin endpoints.
type AuthConfig struct {
	BearerToken string `yaml:"bearer_token"`
	BasicUser   string `yaml:"basic_user"`
	BasicPass   string `yaml:"basic_pass"`
}

// IsConfigured returns true if any auth method is configured.
func (a AuthConfig) IsConfigured() bool {
	return a.BearerToken != "" || (a.BasicUser != "" && a.BasicPass != "")
}
