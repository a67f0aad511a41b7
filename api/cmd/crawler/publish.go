package main

import (
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"task-crawler/api/internal/output"
	"task-crawler/api/internal/store"
	"task-crawler/api/internal/subject"
	"task-crawler/api/internal/task"
	"task-crawler/api/internal/telegram"
)

func newPublishCmd(a *app) *cobra.Command {
	var dryRun, shuffle bool
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Send output tasks to a Telegram chat as quiz polls or messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			reg, err := subject.DefaultRegistry(task.TypeFormat(cfg.Output.TypeFormat))
			if err != nil {
				return err
			}
			subjects, err := reg.Select(cfg.Subjects)
			if err != nil {
				return err
			}

			var sender telegram.Sender
			if !dryRun {
				if cfg.Telegram.Token == "" {
					return errors.New("telegram token is empty: set --token or CRAWLER_TELEGRAM_TOKEN")
				}
				bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
				if err != nil {
					return fmt.Errorf("telegram: %w", err)
				}
				bot.Debug = false
				sender = bot
			}
			pub, err := telegram.NewPublisher(sender, telegram.Options{
				ChatID:  cfg.Telegram.ChatID,
				Delay:   cfg.Telegram.Delay,
				DryRun:  dryRun,
				Shuffle: shuffle,
			}, a.log)
			if err != nil {
				return err
			}

			out := store.NewFileStore(nil, cfg.OutputDir)
			for _, s := range subjects {
				doc, err := output.Read(out, s.OutputFile)
				if err != nil {
					return err
				}
				st, err := pub.Publish(cmd.Context(), doc.Tasks)
				if err != nil {
					return fmt.Errorf("subject %s: %w", s.Key, err)
				}
				a.log.Info("subject published",
					"subject", s.Key,
					"polls", st.Polls,
					"messages", st.Messages,
					"fallbacks", st.Fallbacks)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.String("token", "", "Telegram bot token")
	f.Int64("chat", 0, "Telegram chat id")
	f.Duration("delay", 0, "pause between messages")
	f.BoolVar(&dryRun, "dry-run", false, "build messages without sending")
	f.BoolVar(&shuffle, "shuffle", false, "shuffle answer options")
	return cmd
}
