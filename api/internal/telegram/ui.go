// Package telegram turns output tasks into Telegram quiz polls or HTML
// messages and sends them to a chat.
package telegram

import (
	"errors"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"task-crawler/api/internal/task"
	"task-crawler/api/internal/util"
)

const ExplanationPrefix = "Правильный ответ: "

// Ограничения Bot API для опросов.
const (
	PollMaxQuestionLen    = 300
	PollMinOptions        = 2
	PollMaxOptions        = 10
	PollMaxOptionLen      = 100
	PollMaxExplanationLen = 200
	// MessageMaxLen считается по видимому тексту, после разбора HTML.
	MessageMaxLen = 4096
)

var ErrNotPollable = errors.New("task cannot be sent as a quiz poll")

// OptionKeys - номера вариантов по возрастанию (числовые - как числа).
func OptionKeys(options map[string]string) []string {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}

func question(e task.Entry) string {
	return fmt.Sprintf("#%d\n%s", e.ID, e.Text)
}

// MakePoll собирает quiz-опрос. keys задаёт порядок вариантов, nil - OptionKeys.
func MakePoll(e task.Entry, chatID int64, keys []string) (*tgbotapi.SendPollConfig, error) {
	if keys == nil {
		keys = OptionKeys(e.Options)
	}
	q := question(e)
	if util.RuneLen(q) > PollMaxQuestionLen {
		return nil, fmt.Errorf("%w: question is %d chars", ErrNotPollable, util.RuneLen(q))
	}
	if len(keys) < PollMinOptions || len(keys) > PollMaxOptions {
		return nil, fmt.Errorf("%w: %d options", ErrNotPollable, len(keys))
	}
	var correct int64 = -1
	options := make([]string, 0, len(keys))
	for i, key := range keys {
		option := e.Options[key]
		if option == "" || util.RuneLen(option) > PollMaxOptionLen {
			return nil, fmt.Errorf("%w: option %s has %d chars", ErrNotPollable, key, util.RuneLen(option))
		}
		if key == e.Answer {
			correct = int64(i)
		}
		options = append(options, option)
	}
	if correct < 0 {
		return nil, fmt.Errorf("%w: answer %q is not an option", ErrNotPollable, e.Answer)
	}

	poll := tgbotapi.NewPoll(chatID, q, options...)
	poll.Type = "quiz"
	poll.IsAnonymous = false
	poll.CorrectOptionID = correct
	poll.Explanation = util.Truncate(ExplanationPrefix+e.Options[e.Answer], PollMaxExplanationLen)
	return &poll, nil
}

// MakeMessage собирает HTML-сообщение: жирный вопрос, текст документа
// и пронумерованные варианты с кнопками под сообщением. Не влезающий
// в MessageMaxLen текст режется: сначала документ, потом вопрос.
func MakeMessage(e task.Entry, chatID int64, keys []string) *tgbotapi.MessageConfig {
	if keys == nil {
		keys = OptionKeys(e.Options)
	}
	lines := make([]string, 0, len(keys))
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(keys))
	for i, key := range keys {
		index := i + 1
		lines = append(lines, fmt.Sprintf("\n%d. %s", index, e.Options[key]))
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(
			strconv.Itoa(index), callbackData(e.ID, index, key == e.Answer)))
	}

	q := question(e)
	var doc string
	if e.Doc != nil {
		doc = *e.Doc
	}
	visible := func() int {
		n := util.RuneLen(q) + 1
		if doc != "" {
			n += util.RuneLen(doc) + 2
		}
		for _, line := range lines {
			n += util.RuneLen(line)
		}
		return n
	}
	if over := visible() - MessageMaxLen; over > 0 && doc != "" {
		doc = util.Truncate(doc, max(util.RuneLen(doc)-over, 1))
	}
	if over := visible() - MessageMaxLen; over > 0 {
		q = util.Truncate(q, max(util.RuneLen(q)-over, 1))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", html.EscapeString(q))
	if doc != "" {
		b.WriteString("\n" + html.EscapeString(doc) + "\n")
	}
	for _, line := range lines {
		b.WriteString(html.EscapeString(line))
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ParseMode = tgbotapi.ModeHTML
	if len(buttons) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return &msg
}

// callbackData - "<id>:<номер>:<верно ли>", укладывается в 64 байта.
func callbackData(taskID, index int, correct bool) string {
	return fmt.Sprintf("%d:%d:%t", taskID, index, correct)
}
