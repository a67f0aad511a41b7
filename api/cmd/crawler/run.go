package main

import (
	"github.com/spf13/cobra"

	"task-crawler/api/internal/crawler"
	"task-crawler/api/internal/fipi"
	"task-crawler/api/internal/task"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch (or read cached) tasks and write filtered output files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			c, err := crawler.New(cfg.Site, crawler.Options{
				CacheDir:         cfg.CacheDir,
				OutputDir:        cfg.OutputDir,
				Force:            cfg.Force,
				Subjects:         cfg.Subjects,
				TypeFormat:       task.TypeFormat(cfg.Output.TypeFormat),
				DropEmptyOptions: cfg.Normalize.DropEmptyOptions,
				FIPI: fipi.Options{
					BaseURL:     cfg.FIPI.BaseURL,
					Session:     cfg.Session,
					Timeout:     cfg.FIPI.Timeout,
					PageSize:    cfg.FIPI.PageSize,
					MaxAttempts: cfg.FIPI.MaxAttempts,
					RetryWait:   cfg.FIPI.RetryWait,
				},
			}, a.log)
			if err != nil {
				return err
			}

			unlock, err := crawler.Lock(cfg.CacheDir)
			if err != nil {
				return err
			}
			defer func() {
				if err := unlock(); err != nil {
					a.log.Warn("unlock cache dir", "err", err)
				}
			}()

			reports, err := c.Run(cmd.Context())
			if err != nil {
				a.log.Error("crawl failed", "err", err)
				return err
			}
			for _, r := range reports {
				a.log.Info("subject done",
					"subject", r.Subject.Key,
					"fetched", r.Fetched,
					"accepted", r.Accepted,
					"file", r.Subject.OutputFile)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.String("site", "", "site to crawl (fipi)")
	f.String("session", "", "site session id (sent in the sessionId header)")
	f.Bool("force", false, "ignore cache and download everything again")
	f.String("base-url", "", "API base URL")
	f.Duration("timeout", 0, "per-request timeout")
	f.Int("max-attempts", 0, "attempts per request, 1 disables retries")
	f.Duration("retry-wait", 0, "first retry pause, doubled on each attempt")
	f.String("type-format", "", "output type field: id or composite")
	f.Bool("drop-empty-options", true, "drop answer options with empty text")
	return cmd
}
