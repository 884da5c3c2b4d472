package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chris/nudge/config"
	"github.com/chris/nudge/internal/logging"
	"github.com/chris/nudge/internal/service"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	cfg := config.Load()

	return &cli.Command{
		Name:  "nudge",
		Usage: "personal assistant that keeps notes and fires reminders",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "debug, info, warn or error",
				Value:       cfg.LogLevel,
				Destination: &cfg.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "text or json",
				Value:       cfg.LogFormat,
				Destination: &cfg.LogFormat,
			},
			&cli.StringFlag{
				Name:        "db",
				Usage:       "SQLite database path",
				Value:       cfg.DatabasePath,
				Destination: &cfg.DatabasePath,
			},
		},
		Before: func(ctx context.Context, _ *cli.Command) (context.Context, error) {
			logging.Configure(cfg.LogLevel, cfg.LogFormat)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdRun(cfg),
			cmdChat(cfg),
			cmdService(),
		},
		DefaultCommand: "run",
	}
}

func cmdRun(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "serve Discord messages and fire reminders until interrupted",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return runServer(ctx, cfg)
		},
	}
}

func cmdChat(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "talk to the assistant on the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "user",
				Usage: "external user id for this session",
				Value: "local",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runChat(ctx, cfg, c.String("user"), os.Stdin, os.Stdout)
		},
	}
}

func cmdService() *cli.Command {
	m := service.NewManager(os.Stdout)
	action := func(f func() error) cli.ActionFunc {
		return func(context.Context, *cli.Command) error { return f() }
	}
	return &cli.Command{
		Name:  "service",
		Usage: "manage the launchd agent",
		Commands: []*cli.Command{
			{Name: "install", Usage: "install and load the agent", Action: action(m.Install)},
			{Name: "uninstall", Usage: "unload and remove the agent", Action: action(m.Uninstall)},
			{Name: "start", Action: action(m.Start)},
			{Name: "stop", Action: action(m.Stop)},
			{Name: "restart", Action: action(m.Restart)},
			{Name: "status", Action: action(m.Status)},
			{Name: "logs", Usage: "follow the agent's logs", Action: action(m.Logs)},
		},
	}
}
