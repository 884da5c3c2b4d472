// Package notify delivers outbound messages to a user outside of a
// request/response exchange: fired reminders, finished focus timers and
// scheduled nudges.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

var ErrNoChannel = goerr.New("no delivery channel available")

// Notifier sends message to recipient, an external user id.
type Notifier interface {
	Send(ctx context.Context, recipient, message string) error
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, recipient, message string) error

func (f Func) Send(ctx context.Context, recipient, message string) error {
	return f(ctx, recipient, message)
}

// Webhook posts to a Discord-style incoming webhook. The recipient is not
// addressable through a webhook, so it is mentioned in the text instead.
type Webhook struct {
	URL    string
	Client *http.Client
}

func NewWebhook(url string) *Webhook {
	return &Webhook{URL: url, Client: &http.Client{Timeout: 10 * time.Second}}
}

func (w *Webhook) Send(ctx context.Context, recipient, message string) error {
	if w.URL == "" {
		return ErrNoChannel
	}
	content := message
	if recipient != "" {
		content = fmt.Sprintf("<@%s> %s", recipient, message)
	}
	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return goerr.Wrap(err, "encoding webhook payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return goerr.Wrap(err, "creating webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return goerr.Wrap(err, "posting webhook")
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return goerr.New("webhook rejected message", goerr.V("status", resp.StatusCode))
	}
	return nil
}

// Writer prints messages, one per line. It backs the interactive CLI.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Send(_ context.Context, recipient, message string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := fmt.Fprintf(w.w, "\n[%s] %s\n", recipient, message)
	return err
}

// Chain tries each notifier in order and stops at the first success.
type Chain []Notifier

func (c Chain) Send(ctx context.Context, recipient, message string) error {
	var errs []error
	for _, n := range c {
		if n == nil {
			continue
		}
		err := n.Send(ctx, recipient, message)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return ErrNoChannel
	}
	return goerr.Wrap(errors.Join(errs...), "all delivery channels failed", goerr.V("recipient", recipient))
}
