package telegram

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"task-crawler/api/internal/logger"
	"task-crawler/api/internal/task"
)

// Sender - то, что нужно от *tgbotapi.BotAPI.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Options struct {
	ChatID int64
	// Delay - пауза между отправками, чтобы не упереться в лимиты Bot API.
	Delay   time.Duration
	DryRun  bool
	Shuffle bool
}

type Stats struct {
	Polls     int
	Messages  int
	Fallbacks int
}

type Publisher struct {
	sender Sender
	opts   Options
	log    logger.Logger
	wait   func(ctx context.Context, d time.Duration) error
}

func NewPublisher(sender Sender, opts Options, log logger.Logger) (*Publisher, error) {
	if sender == nil && !opts.DryRun {
		return nil, errors.New("telegram: sender is required unless dry run")
	}
	if opts.ChatID == 0 && !opts.DryRun {
		return nil, errors.New("telegram: chat id is required")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Publisher{sender: sender, opts: opts, log: log, wait: sleep}, nil
}

// Build - то, что будет отправлено для задания: опрос, если задание
// помечено sendAsPoll и проходит лимиты, иначе сообщение.
func (p *Publisher) Build(e task.Entry) (tgbotapi.Chattable, bool, error) {
	keys := OptionKeys(e.Options)
	if p.opts.Shuffle {
		rand.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	}
	if !e.SendAsPoll {
		return MakeMessage(e, p.opts.ChatID, keys), false, nil
	}
	poll, err := MakePoll(e, p.opts.ChatID, keys)
	if err != nil {
		return MakeMessage(e, p.opts.ChatID, keys), false, err
	}
	return poll, true, nil
}

// Publish отправляет задания по одному. Ошибка отправки останавливает публикацию.
func (p *Publisher) Publish(ctx context.Context, entries []task.Entry) (Stats, error) {
	var st Stats
	for i, e := range entries {
		if i > 0 && !p.opts.DryRun && p.opts.Delay > 0 {
			if err := p.wait(ctx, p.opts.Delay); err != nil {
				return st, err
			}
		}
		msg, isPoll, err := p.Build(e)
		if err != nil {
			if !errors.Is(err, ErrNotPollable) {
				return st, err
			}
			st.Fallbacks++
			p.log.Warn("poll rejected, sending as message", "task_id", e.ID, "err", err)
		}
		if isPoll {
			st.Polls++
		} else {
			st.Messages++
		}
		if p.opts.DryRun {
			p.log.Debug("dry run", "task_id", e.ID, "poll", isPoll)
			continue
		}
		if _, err := p.sender.Send(msg); err != nil {
			return st, fmt.Errorf("send task #%d: %w", e.ID, err)
		}
	}
	p.log.Info("tasks published", "polls", st.Polls, "messages", st.Messages, "fallbacks", st.Fallbacks, "dry_run", p.opts.DryRun)
	return st, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
