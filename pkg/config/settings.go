package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ajitpratap0/tablefactory/pkg/errors"
)

// EnvPrefix prefixes every environment variable read into Settings.
const EnvPrefix = "TABLEFACTORY"

// Settings are process level settings of the tablefactory tools.
type Settings struct {
	Log     LogSettings   `mapstructure:"log"`
	Trace   TraceSettings `mapstructure:"trace"`
	Catalog string        `mapstructure:"catalog"`
	Mode    string        `mapstructure:"mode"`
}

// LogSettings configure pkg/logger
type LogSettings struct {
	Level       string `mapstructure:"level"`
	Encoding    string `mapstructure:"encoding"`
	Development bool   `mapstructure:"development"`
}

// TraceSettings configure pkg/observability
type TraceSettings struct {
	Enabled      bool    `mapstructure:"enabled"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", false)
	v.SetDefault("trace.enabled", false)
	v.SetDefault("trace.sampling_rate", 1.0)
	v.SetDefault("catalog", "")
	v.SetDefault("mode", "streaming")
}

// NewViper returns a viper instance with tablefactory defaults and
// environment binding applied. Callers may bind command line flags to it.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadSettings reads settings from v, merging settingsFile first if set.
func LoadSettings(v *viper.Viper, settingsFile string) (*Settings, error) {
	if settingsFile != "" {
		v.SetConfigFile(settingsFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to read settings file").
				WithDetail("file", settingsFile)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to decode settings")
	}
	return &s, nil
}

// LoadDotEnv loads the given .env files, or ./.env when none are given.
// Missing files are skipped; variables already set are not overridden.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Wrap(err, errors.ErrorTypeConfig, "failed to load env file").WithDetail("file", f)
		}
	}
	return nil
}
