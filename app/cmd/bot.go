package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bobylevd/team-balancer/app/balance"
	"github.com/bobylevd/team-balancer/app/event"
)

// Bot is a command to run discord bot.
type Bot struct {
	CommonOpts
	Token          string        `long:"token"           env:"TOKEN"           required:"true" description:"Discord bot token"`
	AdminIDs       []string      `long:"admin-id"        env:"ADMIN_IDS"       env-delim:","   description:"Admin discords IDs"`
	Teams          int           `long:"teams"           env:"TEAMS"           default:"2"     description:"default number of teams"`
	Size           int           `long:"size"            env:"TEAM_SIZE"       default:"5"     description:"players per team"`
	Strategy       string        `long:"strategy"        env:"STRATEGY"        default:"average" choice:"average" choice:"sum" description:"team selection rule"`
	HandlerTimeout time.Duration `long:"handler-timeout" env:"HANDLER_TIMEOUT" default:"5s"    description:"timeout for a single command"`
}

// Execute runs the command.
func (b *Bot) Execute([]string) error {
	strategy, err := balance.ParseStrategy(b.Strategy)
	if err != nil {
		return fmt.Errorf("parse strategy: %w", err)
	}

	svc, closeFn, err := b.openService()
	if err != nil {
		return err
	}
	defer closeFn()

	disc := &event.Discord{
		Token:          b.Token,
		AdminIDs:       b.AdminIDs,
		Service:        svc,
		TeamCount:      b.Teams,
		TeamCapacity:   b.Size,
		Strategy:       strategy,
		HandlerTimeout: b.HandlerTimeout,
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	go func() { // catch signal and invoke graceful termination
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		sig := <-stop
		log.Printf("[WARN] caught signal: %s", sig)
		cancel(fmt.Errorf("caught signal: %s", sig))
	}()

	ewg, ctx := errgroup.WithContext(ctx)
	ewg.Go(func() error {
		log.Printf("[INFO] starting bot, version %s", b.Version)
		return disc.Run(ctx)
	})
	ewg.Go(func() error {
		<-ctx.Done()
		log.Printf("[INFO] stopping bot")
		return nil
	})

	if err := ewg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
