package config

import "time"

// ServerConfig represents the configuration for the message frontend
type ServerConfig struct {
	Frontend      string
	ListenAddress string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	CORSOrigins   []string
}

// HistoryConfig represents the configuration for the in-memory scan ledger
type HistoryConfig struct {
	Capacity      int
	PreviewLength int
}

// MetricsConfig represents the configuration for Prometheus metrics
type MetricsConfig struct {
	Enabled   bool
	Path      string
	Namespace string
}

// ArchiveConfig represents the configuration for the scan audit archive
type ArchiveConfig struct {
	Type             string
	Retention        time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
	RedisAddress     string
	RedisKey         string
}

// GetServer returns the server configuration
func (c *Config) GetServer() (ServerConfig, error) {
	readTimeout, err := c.GetDuration("server.read_timeout")
	if err != nil {
		return ServerConfig{}, err
	}
	writeTimeout, err := c.GetDuration("server.write_timeout")
	if err != nil {
		return ServerConfig{}, err
	}
	return ServerConfig{
		Frontend:      c.GetString("server.frontend"),
		ListenAddress: c.GetString("server.listen_address"),
		ReadTimeout:   readTimeout,
		WriteTimeout:  writeTimeout,
		CORSOrigins:   c.GetStringSlice("server.cors_origins"),
	}, nil
}

// GetHistory returns the history configuration
func (c *Config) GetHistory() HistoryConfig {
	return HistoryConfig{
		Capacity:      c.GetInt("history.capacity"),
		PreviewLength: c.GetInt("history.preview_length"),
	}
}

// GetMetrics returns the metrics configuration
func (c *Config) GetMetrics() MetricsConfig {
	return MetricsConfig{
		Enabled:   c.GetBool("metrics.enabled"),
		Path:      c.GetString("metrics.path"),
		Namespace: c.GetString("metrics.namespace"),
	}
}

// GetArchive returns the archive configuration
func (c *Config) GetArchive() (ArchiveConfig, error) {
	retention, err := c.GetDuration("archive.retention")
	if err != nil {
		return ArchiveConfig{}, err
	}
	cleanupFreq, err := c.GetDuration("archive.cleanup_frequency")
	if err != nil {
		return ArchiveConfig{}, err
	}
	return ArchiveConfig{
		Type:             c.GetString("archive.type"),
		Retention:        retention,
		CleanupFrequency: cleanupFreq,
		SQLitePath:       c.GetString("archive.sqlite_path"),
		MySQLDSN:         c.GetString("archive.mysql_dsn"),
		RedisAddress:     c.GetString("archive.redis_address"),
		RedisKey:         c.GetString("archive.redis_key"),
	}, nil
}
