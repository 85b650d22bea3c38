package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"mtd/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.SetDefault("history.windowMonths", 6)
	viper.SetDefault("export.interval", "1h")

	viper.BindEnv("logger.level", "MTD_LOG_LEVEL")
	viper.BindEnv("database.filePath", "MTD_DB_PATH")
	viper.BindEnv("history.windowMonths", "MTD_HISTORY_WINDOW_MONTHS")
	viper.BindEnv("export.enabled", "MTD_EXPORT_ENABLED")
	viper.BindEnv("export.interval", "MTD_EXPORT_INTERVAL")
	viper.BindEnv("cache.enabled", "MTD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "MTD_CACHE_SIZE")
	viper.BindEnv("clock.forcedTime", "MTD_FORCED_TIME")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "MeetingTimingDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
