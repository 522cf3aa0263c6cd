package cmd

import (
	"context"
	"fmt"

	"github.com/bobylevd/team-balancer/app/report"
	"github.com/bobylevd/team-balancer/app/roster"
)

// Import is a command to load a roster file into the store.
type Import struct {
	CommonOpts
	File  string `long:"file"  short:"f" env:"ROSTER_FILE" required:"true" description:"roster file"`
	Comma string `long:"comma" env:"ROSTER_COMMA" description:"roster field delimiter, detected if empty"`
}

// Execute runs the command.
func (i *Import) Execute([]string) error {
	comma, err := parseComma(i.Comma)
	if err != nil {
		return err
	}

	players, err := roster.LoadFile(i.File, roster.Options{Comma: comma})
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}

	svc, closeFn, err := i.openService()
	if err != nil {
		return err
	}
	defer closeFn()

	if err := svc.Import(context.Background(), players); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	_, err = fmt.Fprintf(i.out(), "imported %d players\n", len(players))
	return err
}

// Roster is a command to print the stored roster.
type Roster struct {
	CommonOpts
	Remove []string `long:"remove" short:"r" description:"remove players with these names"`
}

// Execute runs the command.
func (r *Roster) Execute([]string) error {
	ctx := context.Background()

	svc, closeFn, err := r.openService()
	if err != nil {
		return err
	}
	defer closeFn()

	if len(r.Remove) > 0 {
		if err := svc.Store.Delete(ctx, r.Remove...); err != nil {
			return fmt.Errorf("remove players: %w", err)
		}
	}

	players, err := svc.Roster(ctx)
	if err != nil {
		return fmt.Errorf("roster: %w", err)
	}

	_, err = fmt.Fprintln(r.out(), report.Roster(players))
	return err
}
