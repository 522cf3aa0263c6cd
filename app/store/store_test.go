package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prepStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_UpsertList(t *testing.T) {
	ctx := context.Background()
	s := prepStore(t)

	require.NoError(t, s.Upsert(ctx,
		Player{Name: "zed", Rank: Gold, Role: Duelist, Contact: "zed#1"},
		Player{Name: "amy", Rank: Iron},
		Player{Name: "bob", Rank: Diamond, Note: "igl"},
	))

	// update keeps the original position
	require.NoError(t, s.Upsert(ctx, Player{Name: "ZED", Rank: Silver, Role: Sentinel}))

	players, err := s.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, Player{Name: "zed", Rank: Silver, Role: Sentinel}, players[0])
	assert.Equal(t, "amy", players[1].Name)
	assert.Equal(t, Player{Name: "bob", Rank: Diamond, Note: "igl"}, players[2])

	players, err = s.List(ctx, []string{"bob", "amy", "nobody"})
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "amy", players[0].Name)
	assert.Equal(t, "bob", players[1].Name)
}

func TestStore_GetDelete(t *testing.T) {
	ctx := context.Background()
	s := prepStore(t)

	require.NoError(t, s.Upsert(ctx, Player{Name: "amy", Rank: Bronze}, Player{Name: "bob"}))

	pl, err := s.Get(ctx, "amy")
	require.NoError(t, err)
	assert.Equal(t, Bronze, pl.Rank)

	_, err = s.Get(ctx, "carl")
	require.ErrorIs(t, err, ErrNotFound)

	err = s.Delete(ctx, "amy", "carl")
	require.ErrorIs(t, err, ErrNotFound)

	// nothing removed on failure
	players, err := s.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, players, 2)

	require.NoError(t, s.Delete(ctx, "amy"))
	players, err = s.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "bob", players[0].Name)
}

func TestStore_Balances(t *testing.T) {
	ctx := context.Background()
	s := prepStore(t)

	_, err := s.LastBalance(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	created := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	first := Balance{
		ID: "first", CreatedAt: created, TeamCount: 1, TeamCapacity: 1, Strategy: "sum",
		Teams: []Team{{Name: "Team 1", Players: []Player{{Name: "amy", Rank: Gold}}}},
	}
	second := Balance{
		ID: "second", CreatedAt: created.Add(time.Minute), TeamCount: 3, TeamCapacity: 2, Strategy: "average",
		Teams: []Team{
			{Name: "Team 1", Players: []Player{{Name: "amy", Rank: Gold}, {Name: "bob", Rank: Iron, Role: Duelist}}},
			{Name: "Team 2", Players: []Player{{Name: "carl", Rank: Silver, Contact: "c#2"}}},
		},
		Leftover: []Player{{Name: "dan", Rank: Unranked, Note: "late"}},
	}
	require.NoError(t, s.SaveBalance(ctx, first))
	require.NoError(t, s.SaveBalance(ctx, second))

	got, err := s.LastBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", got.ID)
	assert.WithinDuration(t, second.CreatedAt, got.CreatedAt, time.Second)
	assert.Equal(t, 3, got.TeamCount)
	assert.Equal(t, 2, got.TeamCapacity)
	assert.Equal(t, "average", got.Strategy)
	require.Len(t, got.Teams, 3, "empty teams are kept for average")
	assert.Equal(t, second.Teams, got.Teams[:2])
	assert.Equal(t, Team{Name: "Team 3"}, got.Teams[2])
	assert.Equal(t, second.Leftover, got.Leftover)
}
