package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const EnvPrefix = "CRAWLER"

type Config struct {
	CacheDir  string   `mapstructure:"cache_dir" validate:"required"`
	OutputDir string   `mapstructure:"output_dir" validate:"required"`
	Site      string   `mapstructure:"site" validate:"required"`
	Session   string   `mapstructure:"session"`
	Force     bool     `mapstructure:"force"`
	Subjects  []string `mapstructure:"subjects"`

	Log       LogConfig       `mapstructure:"log"`
	FIPI      FIPIConfig      `mapstructure:"fipi"`
	Normalize NormalizeConfig `mapstructure:"normalize"`
	Output    OutputConfig    `mapstructure:"output"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

type FIPIConfig struct {
	BaseURL     string        `mapstructure:"base_url" validate:"required,url"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
	PageSize    int           `mapstructure:"page_size" validate:"min=1,max=1000"`
	MaxAttempts int           `mapstructure:"max_attempts" validate:"min=1,max=10"`
	RetryWait   time.Duration `mapstructure:"retry_wait" validate:"gt=0"`
}

type NormalizeConfig struct {
	DropEmptyOptions bool `mapstructure:"drop_empty_options"`
}

type OutputConfig struct {
	TypeFormat string `mapstructure:"type_format" validate:"oneof=id composite"`
}

type TelegramConfig struct {
	Token  string        `mapstructure:"token"`
	ChatID int64         `mapstructure:"chat_id"`
	Delay  time.Duration `mapstructure:"delay" validate:"gte=0"`
}

// Значения по умолчанию. Ключи без умолчания тоже регистрируются,
// иначе AutomaticEnv не увидит их при Unmarshal.
var defaults = map[string]any{
	"cache_dir":                    "cache",
	"output_dir":                   "output",
	"site":                         "fipi",
	"session":                      "",
	"force":                        false,
	"subjects":                     []string{},
	"log.level":                    "info",
	"log.json":                     false,
	"fipi.base_url":                "http://os.fipi.ru/api",
	"fipi.timeout":                 30 * time.Second,
	"fipi.page_size":               100,
	"fipi.max_attempts":            3,
	"fipi.retry_wait":              500 * time.Millisecond,
	"normalize.drop_empty_options": true,
	"output.type_format":           "id",
	"telegram.token":               "",
	"telegram.chat_id":             int64(0),
	"telegram.delay":               time.Second,
}

// NewViper готовит viper с умолчаниями, окружением CRAWLER_* и, если задан,
// YAML-файлом. Флаги CLI привязываются к нему уже снаружи.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("read config %s: %w", configFile, err)
			}
		}
	}
	return v, nil
}

// Load собирает и проверяет конфигурацию.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Site = strings.ToLower(strings.TrimSpace(cfg.Site))
	cfg.Subjects = splitList(cfg.Subjects)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// splitList разворачивает "a,b" из окружения в отдельные элементы.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
