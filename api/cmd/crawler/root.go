package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"task-crawler/api/internal/config"
	"task-crawler/api/internal/logger"
)

const defaultEnvFile = ".env"

// app - то, что собирается один раз перед любой командой.
type app struct {
	configFile string
	envFile    string

	v   *viper.Viper
	cfg *config.Config
	log logger.Logger
}

// flagKeys - какой флаг какой ключ конфигурации переопределяет.
var flagKeys = map[string]string{
	"cache":              "cache_dir",
	"output":             "output_dir",
	"log-level":          "log.level",
	"log-json":           "log.json",
	"site":               "site",
	"session":            "session",
	"force":              "force",
	"subject":            "subjects",
	"base-url":           "fipi.base_url",
	"timeout":            "fipi.timeout",
	"max-attempts":       "fipi.max_attempts",
	"retry-wait":         "fipi.retry_wait",
	"type-format":        "output.type_format",
	"drop-empty-options": "normalize.drop_empty_options",
	"token":              "telegram.token",
	"chat":               "telegram.chat_id",
	"delay":              "telegram.delay",
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "crawler",
		Short:         "Download exam tasks, normalize them and write per-subject files",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "YAML config file")
	pf.StringVar(&a.envFile, "env-file", defaultEnvFile, "dotenv file loaded before config")
	pf.String("cache", "", "cache directory")
	pf.String("output", "", "output directory")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.Bool("log-json", false, "log in JSON")
	pf.StringSlice("subject", nil, "subject key or id, repeatable (default all)")

	root.AddCommand(newRunCmd(a), newPublishCmd(a), newSubjectsCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	if err := loadEnvFile(a.envFile, cmd.Flags().Changed("env-file")); err != nil {
		return err
	}
	v, err := config.NewViper(a.configFile)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.v = v
	a.cfg = cfg
	a.log = logger.New(logger.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON})
	return nil
}

// loadEnvFile подгружает .env. Отсутствие файла по умолчанию не ошибка,
// явно указанный файл должен существовать.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// bindFlags привязывает к viper только флаги, которые есть у команды.
// Незаданный флаг не перекрывает окружение и файл.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}
