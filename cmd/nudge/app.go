package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/chris/nudge/config"
	"github.com/chris/nudge/internal/actions"
	"github.com/chris/nudge/internal/agent"
	"github.com/chris/nudge/internal/db"
	"github.com/chris/nudge/internal/discord"
	"github.com/chris/nudge/internal/intent"
	"github.com/chris/nudge/internal/llm"
	"github.com/chris/nudge/internal/notify"
	"github.com/chris/nudge/internal/scheduler"
	"github.com/chris/nudge/internal/timeparse"
	"github.com/m-mizutani/goerr/v2"
)

const shutdownTimeout = 10 * time.Second

// app holds the long-lived components shared by run and chat.
type app struct {
	store     *db.DB
	timers    *scheduler.Timers
	reminders *scheduler.Reminders
	nudges    *scheduler.Nudges
	router    *agent.Router
	logger    *slog.Logger
}

// build opens the store and wires every component. Pending reminders are
// re-armed before it returns; a failure there is fatal.
func build(ctx context.Context, cfg *config.Config, notifier notify.Notifier) (*app, error) {
	logger := slog.Default()

	client, err := llm.NewClient(llm.ProviderConfig{
		Provider:  cfg.LLMProvider,
		APIKey:    providerKey(cfg),
		AuthToken: cfg.AnthropicToken,
		Model:     cfg.LLMModel,
		BaseURL:   cfg.OllamaBaseURL,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "creating LLM client")
	}

	store, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	a := &app{store: store, logger: logger}

	a.timers = scheduler.NewTimers(logger)
	a.reminders = scheduler.NewReminders(a.timers, store, notifier, logger)
	focus := scheduler.NewFocus(a.timers, store, notifier, logger)
	a.nudges = scheduler.NewNudges(store, notifier, cfg.Location(), logger)

	resolver := timeparse.New()
	registry, err := actions.NewRegistry(actions.Default(&actions.Deps{
		Users:           store,
		Reminders:       store,
		Notes:           store,
		Energy:          store,
		Scheduler:       a.reminders,
		Focus:           focus,
		Resolver:        resolver,
		DefaultTimezone: cfg.UserTimezone,
		FocusMinutes:    cfg.FocusMinutes,
	})...)
	if err != nil {
		a.close()
		return nil, goerr.Wrap(err, "building action registry")
	}

	a.router = agent.New(agent.Options{
		Client:           client,
		Classifier:       intent.New(nil),
		Resolver:         resolver,
		Registry:         registry,
		Dispatcher:       actions.NewDispatcher(registry, logger),
		Store:            store,
		Reminders:        a.reminders,
		DefaultTimezone:  cfg.UserTimezone,
		MaxContextTokens: cfg.MaxContextTokens,
		Logger:           logger,
	})

	n, err := a.reminders.OnBoot(ctx)
	if err != nil {
		a.close()
		return nil, goerr.Wrap(err, "restoring pending reminders")
	}
	logger.Info("restored pending reminders", "count", n)
	return a, nil
}

func (a *app) startNudges(ctx context.Context, cfg *config.Config) {
	if err := a.nudges.SeedDefault(ctx, cfg.CheckInCron, cfg.CheckInMessage); err != nil {
		a.logger.Warn("default check-in not seeded", "error", err)
	}
	if err := a.nudges.Start(ctx); err != nil {
		a.logger.Error("starting scheduled nudges", "error", err)
	}
}

func (a *app) close() {
	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if a.nudges != nil {
		wait(stopCtx, a.nudges.Stop())
	}
	if a.timers != nil {
		wait(stopCtx, a.timers.Stop())
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("closing database", "error", err)
	}
}

// wait blocks until running jobs finish or the shutdown timeout passes.
func wait(limit, done context.Context) {
	select {
	case <-done.Done():
	case <-limit.Done():
	}
}

func providerKey(cfg *config.Config) string {
	if cfg.LLMProvider == "openai" {
		return cfg.OpenAIKey
	}
	return cfg.AnthropicKey
}

func runServer(ctx context.Context, cfg *config.Config) error {
	if cfg.DiscordToken == "" && cfg.DiscordWebhook == "" {
		return goerr.New("set DISCORD_BOT_TOKEN (and optionally DISCORD_WEBHOOK_URL), or use the chat command")
	}

	var a *app
	var chain notify.Chain
	var bot *discord.Bot
	if cfg.DiscordToken != "" {
		var err error
		bot, err = discord.NewBot(cfg.DiscordToken, discord.HandlerFunc(func(ctx context.Context, text, userID string) string {
			return a.router.Handle(ctx, text, userID)
		}), slog.Default())
		if err != nil {
			return err
		}
		chain = append(chain, bot)
	}
	if cfg.DiscordWebhook != "" {
		chain = append(chain, notify.NewWebhook(cfg.DiscordWebhook))
	}

	a, err := build(ctx, cfg, chain)
	if err != nil {
		return err
	}
	defer a.close()
	a.startNudges(ctx, cfg)

	if bot != nil {
		if err := bot.Open(); err != nil {
			return err
		}
		defer bot.Close()
	}

	a.logger.Info("running, press Ctrl+C to exit")
	<-ctx.Done()
	a.logger.Info("shutting down")
	return nil
}

// runChat reads one message per line from in. Reminders and other
// notifications are printed to out as they fire.
func runChat(ctx context.Context, cfg *config.Config, user string, in io.Reader, out io.Writer) error {
	a, err := build(ctx, cfg, notify.NewWriter(out))
	if err != nil {
		return err
	}
	defer a.close()

	interactive := isTerminal(in)
	prompt := func() {
		if interactive {
			fmt.Fprint(out, "nudge> ")
		}
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	prompt()
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "exit" || line == "quit" {
				return nil
			}
			if line != "" {
				fmt.Fprintln(out, a.router.Handle(ctx, line, user))
			}
			prompt()
		}
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	return err == nil && stat.Mode()&os.ModeCharDevice != 0
}
