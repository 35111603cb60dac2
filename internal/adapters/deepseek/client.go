// Package deepseek calls an OpenAI-compatible chat completions endpoint with
// bounded retries and records every attempt in the call log.
package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"seminary/internal/adapters/observability"
	"seminary/internal/calllog"
)

const (
	DefaultURL     = "https://api.deepseek.com/v1/chat/completions"
	DefaultModel   = "deepseek-chat"
	DefaultTimeout = 90 * time.Second

	// Endpoint is the name entries are logged under.
	Endpoint = "DeepSeek API"

	// placeholderKey is what sample env files ship with; it counts as unset.
	placeholderKey = "votre_cle_api_par_defaut"

	maxAttempts = 3
)

type Config struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration // per attempt
	RPS     int
}

type Client struct {
	url   string
	key   string
	model string
	hc    *http.Client
	rl    *rate.Limiter
	calls *calllog.Log
	sleep func(ctx context.Context, d time.Duration) bool
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.hc = hc } }

// WithSleep replaces the backoff wait. fn returns false when ctx ended first.
func WithSleep(fn func(ctx context.Context, d time.Duration) bool) Option {
	return func(c *Client) { c.sleep = fn }
}

func New(cfg Config, calls *calllog.Log, opts ...Option) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 2
	}
	if calls == nil {
		calls = calllog.New(calllog.DefaultCapacity)
	}
	c := &Client{
		url:   cfg.URL,
		key:   strings.TrimSpace(cfg.APIKey),
		model: cfg.Model,
		hc:    &http.Client{Timeout: cfg.Timeout},
		rl:    rate.NewLimiter(rate.Limit(cfg.RPS), cfg.RPS),
		calls: calls,
		sleep: sleepCtx,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.key != "" && c.key != placeholderKey
}

/********** wire types **********/

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type chatResponse struct {
	ID      string `json:"id,omitempty"`
	Model   string `json:"model,omitempty"`
	Choices []struct {
		Index        int     `json:"index"`
		Message      message `json:"message"`
		FinishReason string  `json:"finish_reason,omitempty"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
}

// UserMessage joins the rendered catalog context and the raw request.
func UserMessage(contextData, prompt string) string {
	return "Voici les données sur lesquelles tu dois te baser:\n\n" + contextData +
		"\n\nRequête de l'utilisateur: " + prompt
}

/********** call **********/

// Call sends one chat completion and returns the first choice's content.
// Timeouts and transport failures are retried up to three attempts with 2s
// then 4s between them; anything else fails at once. Failures are returned
// as *CallError.
func (c *Client) Call(ctx context.Context, prompt, contextData, systemInstruction string) (string, error) {
	if !c.Configured() {
		log.Warn().Msg("deepseek api key not configured")
		return "", &CallError{Kind: KindNotConfigured, Err: ErrNotConfigured}
	}

	body := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: UserMessage(contextData, prompt)},
		},
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return "", &CallError{Kind: KindUnexpected, Err: err}
	}
	in := calllog.Input{
		Headers: map[string]string{"Content-Type": "application/json", "Authorization": "Bearer " + c.key},
		Data:    body,
		Prompt:  prompt,
	}

	var last *CallError
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rl.Wait(ctx); err != nil {
			last = c.fromContext(ctx, err)
			c.record(attempt, in, nil, last)
			return "", last
		}

		text, resp, cerr := c.do(ctx, raw)
		if cerr == nil {
			c.record(attempt, in, resp, nil)
			log.Debug().Int("attempt", attempt).Int("chars", len(text)).Msg("deepseek response received")
			return text, nil
		}
		last = cerr
		c.record(attempt, in, nil, cerr)

		if !cerr.Kind.Retryable() || ctx.Err() != nil {
			return "", cerr
		}
		if attempt == maxAttempts {
			break
		}
		wait := time.Duration(1<<attempt) * time.Second
		log.Warn().Int("attempt", attempt).Str("kind", cerr.Kind.String()).
			Dur("backoff", wait).Str("err", calllog.Redact(cerr.Err.Error())).Msg("deepseek call failed, retrying")
		if !c.sleep(ctx, wait) {
			return "", c.fromContext(ctx, ctx.Err())
		}
	}
	log.Error().Str("kind", last.Kind.String()).Str("err", calllog.Redact(last.Err.Error())).Msg("deepseek call failed")
	return "", last
}

// do performs a single attempt.
func (c *Client) do(ctx context.Context, raw []byte) (string, *chatResponse, *CallError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(raw))
	if err != nil {
		return "", nil, &CallError{Kind: KindUnexpected, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("User-Agent", "seminary/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("deepseek", "chat_completions", 0, time.Since(start))
		if ctx.Err() != nil {
			return "", nil, c.fromContext(ctx, ctx.Err())
		}
		return "", nil, &CallError{Kind: classify(err), Err: err}
	}
	defer resp.Body.Close()
	observability.ObserveExternal("deepseek", "chat_completions", resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", nil, &CallError{Kind: KindTransport, Err: fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if k := classify(err); k == KindTimeout {
			return "", nil, &CallError{Kind: k, Err: err}
		}
		return "", nil, &CallError{Kind: KindUnexpected, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(out.Choices) == 0 {
		return "", &out, &CallError{Kind: KindUnexpected, Err: errors.New("response has no choices")}
	}
	return out.Choices[0].Message.Content, &out, nil
}

func (c *Client) record(attempt int, in calllog.Input, resp *chatResponse, cerr *CallError) {
	if cerr == nil {
		observability.ObserveGeneratorAttempt("success")
		c.calls.Append(Endpoint, attempt, in, resp, calllog.StatusSuccess)
		return
	}
	observability.ObserveGeneratorAttempt(cerr.Kind.String())
	c.calls.Append(Endpoint, attempt, in, calllog.ErrorOutput(cerr.Err.Error()), calllog.StatusError)
}

// fromContext maps the caller's context ending to a CallError. An expired
// deadline reads as a timeout.
func (c *Client) fromContext(ctx context.Context, err error) *CallError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &CallError{Kind: KindTimeout, Err: err}
	}
	return &CallError{Kind: KindTransport, Err: err}
}

func classify(err error) Kind {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return KindTimeout
	}
	return KindTransport
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
