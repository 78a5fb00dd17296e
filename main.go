package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/anicoll/smartthings-integration/cmd"
	"github.com/anicoll/smartthings-integration/internal/pkg/config"
)

//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen --config=./gen/config.yaml ./gen/api.yaml

func main() {
	app := &cli.App{
		Name:   "smartthings-bridge",
		Usage:  "bridge SmartThings cloud devices into Home Assistant",
		Action: cmd.SmartThingsCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "access-token",
				EnvVars:  []string{"SMARTTHINGS_TOKEN"},
				Value:    "",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "location-id",
				EnvVars: []string{"SMARTTHINGS_LOCATION_ID"},
				Value:   "",
			},
			&cli.DurationFlag{
				Name:    "poll-interval",
				EnvVars: []string{"POLL_INTERVAL"},
				Value:   config.DefaultPollInterval,
			},
			&cli.BoolFlag{
				Name:    "webhook-enabled",
				EnvVars: []string{"WEBHOOK_ENABLED"},
				Value:   false,
			},
			&cli.StringFlag{
				Name:    "webhook-url",
				EnvVars: []string{"WEBHOOK_URL"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "tunnel-subdomain",
				EnvVars: []string{"TUNNEL_SUBDOMAIN"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   "INFO",
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
