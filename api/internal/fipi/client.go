// Package fipi talks to the task bank API at os.fipi.ru: the dictionaries
// endpoint and the paginated task list.
package fipi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"
	"github.com/tidwall/gjson"

	"task-crawler/api/internal/logger"
	"task-crawler/api/internal/util"
)

const (
	DefaultBaseURL     = "http://os.fipi.ru/api"
	DefaultTimeout     = 30 * time.Second
	DefaultPageSize    = 100
	DefaultMaxAttempts = 3
	DefaultRetryWait   = 500 * time.Millisecond

	dictionariesPath = "/dictionaries"
	tasksPath        = "/tasks"
	sessionHeader    = "sessionId"
	tasksField       = "tasks"
	maxErrBody       = 300
)

var (
	ErrEmptySession = errors.New("fipi: session id is empty")
	ErrMissingTasks = errors.New("fipi: response has no tasks array")
)

// StatusError - ответ API с кодом не 2xx.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fipi %d: %s", e.Code, e.Body)
}

// temporary: 5xx, 408 и 429 имеет смысл повторить, остальные 4xx - нет.
func (e *StatusError) temporary() bool {
	return e.Code >= 500 || e.Code == http.StatusRequestTimeout || e.Code == http.StatusTooManyRequests
}

type Options struct {
	BaseURL     string
	Session     string
	Timeout     time.Duration
	PageSize    int
	MaxAttempts int
	RetryWait   time.Duration
}

func (o Options) withDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.RetryWait <= 0 {
		o.RetryWait = DefaultRetryWait
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	return o
}

type Client struct {
	opts Options
	http *resty.Client
	log  logger.Logger
}

func New(opts Options, log logger.Logger) *Client {
	opts = opts.withDefaults()
	if log == nil {
		log = logger.Nop()
	}
	httpc := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json")
	return &Client{opts: opts, http: httpc, log: log}
}

// Dictionaries возвращает справочники (уровни, типы, темы) как есть.
// Сессия для этого запроса не нужна.
func (c *Client) Dictionaries(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, "dictionaries", func() (*resty.Response, error) {
		return c.http.R().SetContext(ctx).Get(dictionariesPath)
	}, func(body []byte) error {
		if !gjson.ValidBytes(body) {
			return fmt.Errorf("fipi dictionaries: invalid json")
		}
		out = append(json.RawMessage(nil), body...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Tasks выкачивает все задания предмета постранично, начиная с первой
// страницы, пока API не вернёт пустую. Верхней границы по страницам нет.
func (c *Client) Tasks(ctx context.Context, subjectID int) ([]json.RawMessage, error) {
	if strings.TrimSpace(c.opts.Session) == "" {
		return nil, ErrEmptySession
	}
	req := NewTasksRequest(subjectID, c.opts.PageSize)
	log := c.log.With("subject_id", subjectID)

	var tasks []json.RawMessage
	for {
		page, err := c.page(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("subject %d page %d: %w", subjectID, req.PageNumber, err)
		}
		if len(page) == 0 {
			break
		}
		tasks = append(tasks, page...)
		log.Info("tasks loaded from site", "page", req.PageNumber, "count", len(tasks))
		req.PageNumber++
	}
	if tasks == nil {
		tasks = []json.RawMessage{}
	}
	return tasks, nil
}

func (c *Client) page(ctx context.Context, req TasksRequest) ([]json.RawMessage, error) {
	var page []json.RawMessage
	err := c.do(ctx, "tasks", func() (*resty.Response, error) {
		return c.http.R().
			SetContext(ctx).
			SetHeader(sessionHeader, c.opts.Session).
			SetHeader("Content-Type", "application/json").
			SetBody(req).
			Post(tasksPath)
	}, func(body []byte) error {
		if !gjson.ValidBytes(body) {
			return fmt.Errorf("fipi tasks: invalid json")
		}
		res := gjson.GetBytes(body, tasksField)
		if !res.IsArray() {
			return ErrMissingTasks
		}
		page = make([]json.RawMessage, 0, len(res.Array()))
		res.ForEach(func(_, v gjson.Result) bool {
			page = append(page, json.RawMessage(v.Raw))
			return true
		})
		return nil
	})
	return page, err
}

// do выполняет запрос не больше MaxAttempts раз. Ошибки транспорта,
// 5xx/408/429 и битое тело повторяются с экспоненциальной паузой,
// остальное возвращается сразу.
func (c *Client) do(
	ctx context.Context,
	what string,
	send func() (*resty.Response, error),
	decode func(body []byte) error,
) error {
	backoff := retry.WithMaxRetries(uint64(c.opts.MaxAttempts-1), retry.NewExponential(c.opts.RetryWait))
	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := c.once(send, decode)
		if err == nil {
			return nil
		}
		var se *StatusError
		if errors.As(err, &se) && !se.temporary() {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		if attempt < c.opts.MaxAttempts {
			c.log.Warn("fipi request failed, retrying", "request", what, "attempt", attempt, "err", err)
		}
		return retry.RetryableError(err)
	})
}

func (c *Client) once(send func() (*resty.Response, error), decode func(body []byte) error) error {
	resp, err := send()
	if err != nil {
		return fmt.Errorf("fipi request: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return &StatusError{Code: resp.StatusCode(), Body: util.Truncate(strings.TrimSpace(resp.String()), maxErrBody)}
	}
	return decode(resp.Body())
}
