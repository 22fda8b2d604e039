package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/iliyamo/paralympics-iris/internal/logging"
	"github.com/iliyamo/paralympics-iris/internal/queue"
)

// consume runs the catalog consumer until interrupted.
func consume(c *cli.Context) error {
	url := c.String(flagAMQPURL)
	if url == "" {
		return errors.New("consume requires --amqp-url or AMQP_URL")
	}
	logger := logging.New(logging.Config{Service: "dataload", Level: c.String(flagLogLevel), Format: "text"})

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := &queue.Consumer{URL: url, Dir: c.String(flagDir), Logger: logger}
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
