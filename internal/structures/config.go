package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Database struct {
	FilePath string `yaml:"filePath" validate:"required|unixPath"`
}

type HistoryConfig struct {
	WindowMonths int `yaml:"windowMonths" validate:"required|min:1"`
}

type ExportConfig struct {
	Enabled  bool          `yaml:"enabled"`
	FilePath string        `yaml:"filePath"`
	Interval time.Duration `yaml:"interval"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type ClockConfig struct {
	// ForcedTime pins the clock epoch for demo/testing runs. RFC3339.
	// Empty means wall-clock time.
	ForcedTime string `yaml:"forcedTime"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	Database  Database      `yaml:"database"`
	History   HistoryConfig `yaml:"history"`
	Export    ExportConfig  `yaml:"export"`
	WebServer Server        `yaml:"webServer"`
	Logger    LoggerConfig  `yaml:"logger"`
	Cache     CacheConfig   `yaml:"cache"`
	Metrics   MetricsConfig `yaml:"metrics"`
	Clock     ClockConfig   `yaml:"clock"`
}
