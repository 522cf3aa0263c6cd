package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/bobylevd/team-balancer/app/balance"
	"github.com/bobylevd/team-balancer/app/report"
	"github.com/bobylevd/team-balancer/app/roster"
	"github.com/bobylevd/team-balancer/app/store"
)

// Balance is a command to split a roster into teams.
type Balance struct {
	CommonOpts
	File     string   `long:"file"     short:"f" env:"ROSTER_FILE" description:"roster file, the stored roster is used if empty"`
	Comma    string   `long:"comma"    env:"ROSTER_COMMA"          description:"roster field delimiter, detected if empty"`
	Teams    int      `long:"teams"    short:"n" env:"TEAMS"       default:"2" description:"number of teams"`
	Size     int      `long:"size"     short:"k" env:"TEAM_SIZE"   default:"5" description:"players per team"`
	Strategy string   `long:"strategy" env:"STRATEGY" default:"average" choice:"average" choice:"sum" description:"team selection rule"`
	Names    []string `long:"player"   short:"p"                   description:"restrict the stored roster to these players"`
	Save     bool     `long:"save"                                 description:"save the result to the store"`
}

// Execute runs the command.
func (b *Balance) Execute([]string) error {
	ctx := context.Background()

	strategy, err := balance.ParseStrategy(b.Strategy)
	if err != nil {
		return fmt.Errorf("parse strategy: %w", err)
	}

	req := store.BalanceRequest{
		Names:        b.Names,
		TeamCount:    b.Teams,
		TeamCapacity: b.Size,
		Strategy:     strategy,
		Save:         b.Save,
	}

	var players []store.Player
	if b.File != "" {
		comma, err := parseComma(b.Comma)
		if err != nil {
			return err
		}
		if players, err = roster.LoadFile(b.File, roster.Options{Comma: comma}); err != nil {
			return fmt.Errorf("load roster: %w", err)
		}
		log.Printf("[DEBUG] loaded %d players from %s", len(players), b.File)
	}

	var svc *store.Service
	if b.File == "" || b.Save {
		var closeFn func()
		if svc, closeFn, err = b.openService(); err != nil {
			return err
		}
		defer closeFn()
	} else {
		svc = &store.Service{}
	}

	var res store.Balance
	if b.File != "" {
		res, err = svc.BalancePlayers(ctx, players, req)
	} else {
		res, err = svc.Balance(ctx, req)
	}
	if err != nil {
		return fmt.Errorf("balance: %w", err)
	}

	if b.Save {
		log.Printf("[INFO] saved balance %s", res.ID)
	}

	_, err = fmt.Fprintln(b.out(), report.Teams(res))
	return err
}

func parseComma(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	return r[0], nil
}
