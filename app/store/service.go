package store

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bobylevd/team-balancer/app/balance"
)

// Service wraps the database store with additional methods.
type Service struct {
	Store *Store
	Now   func() time.Time // defaults to time.Now
}

// BalanceRequest is a request to split the roster into teams.
type BalanceRequest struct {
	Names        []string // restrict the roster to these players, all if empty
	TeamCount    int
	TeamCapacity int
	Strategy     balance.Strategy
	Save         bool
}

// ErrMissing indicates that certain players were not found in the roster.
type ErrMissing []string

// Error returns the error message.
func (e ErrMissing) Error() string {
	return fmt.Sprintf("players are missing from the roster: %s", strings.Join(e, ", "))
}

// Import adds players to the roster or updates the existing ones.
func (s *Service) Import(ctx context.Context, players []Player) error {
	if err := s.Store.Upsert(ctx, players...); err != nil {
		return fmt.Errorf("upsert players: %w", err)
	}
	log.Printf("[INFO] imported %d players", len(players))
	return nil
}

// Roster returns all players in roster order.
func (s *Service) Roster(ctx context.Context) ([]Player, error) {
	players, err := s.Store.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return players, nil
}

// Balance splits the stored roster into teams.
func (s *Service) Balance(ctx context.Context, req BalanceRequest) (Balance, error) {
	players, err := s.Store.List(ctx, req.Names)
	if err != nil {
		return Balance{}, fmt.Errorf("list players: %w", err)
	}

	if len(req.Names) != 0 && len(players) != len(req.Names) {
		var e ErrMissing
		for _, name := range req.Names {
			if !s.containsName(players, name) {
				e = append(e, name)
			}
		}
		if len(e) > 0 {
			return Balance{}, e
		}
	}

	return s.BalancePlayers(ctx, players, req)
}

// BalancePlayers splits the given players into teams, req.Names is ignored.
func (s *Service) BalancePlayers(ctx context.Context, players []Player, req BalanceRequest) (Balance, error) {
	res, err := balance.Balance(players, balance.Options{
		TeamCount:    req.TeamCount,
		TeamCapacity: req.TeamCapacity,
		Strategy:     req.Strategy,
	})
	if err != nil {
		return Balance{}, fmt.Errorf("balance players: %w", err)
	}

	b := Balance{
		ID:           uuid.NewString(),
		CreatedAt:    s.now(),
		TeamCount:    req.TeamCount,
		TeamCapacity: req.TeamCapacity,
		Strategy:     req.Strategy.String(),
		Leftover:     res.Leftover,
	}
	for idx, members := range res.Teams {
		b.Teams = append(b.Teams, Team{Name: teamName(idx), Players: members})
	}

	log.Printf("[DEBUG] balanced %d players into %d teams, %d left over, spread %d",
		len(players), len(b.Teams), len(b.Leftover), b.Spread())

	if !req.Save {
		return b, nil
	}

	if err := s.Store.SaveBalance(ctx, b); err != nil {
		return Balance{}, fmt.Errorf("save balance: %w", err)
	}

	return b, nil
}

// Last returns the most recently saved balance.
func (s *Service) Last(ctx context.Context) (Balance, error) {
	b, err := s.Store.LastBalance(ctx)
	if err != nil {
		return Balance{}, fmt.Errorf("last balance: %w", err)
	}
	return b, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// containsName checks whether the players contain the specified name,
// case-insensitive.
func (s *Service) containsName(players []Player, name string) bool {
	for _, pl := range players {
		if strings.EqualFold(pl.Name, name) {
			return true
		}
	}
	return false
}
