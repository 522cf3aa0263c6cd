package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bobylevd/team-balancer/app/balance"
)

// ErrNotFound indicates that the entity hasn't been found in the database.
var ErrNotFound = errors.New("not found")

// leftoverTeam marks balance members that were not placed into any team.
const leftoverTeam = -1

// Store provides methods to store/load data.
type Store struct {
	db *sqlx.DB
}

// New prepares the database.
func New(dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS players (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE,
			rank TEXT NOT NULL DEFAULT 'UNRANKED',
			role TEXT NOT NULL DEFAULT 'FLEX',
			contact TEXT NOT NULL DEFAULT '',
			note TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS balances (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			created_at DATETIME NOT NULL,
			team_count INTEGER NOT NULL,
			team_capacity INTEGER NOT NULL,
			strategy TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS balance_members (
			balance_id TEXT NOT NULL REFERENCES balances(id) ON DELETE CASCADE,
			team INTEGER NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			rank TEXT NOT NULL,
			role TEXT NOT NULL,
			contact TEXT NOT NULL DEFAULT '',
			note TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (balance_id, team, position)
		);
    `

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Upsert inserts new players and updates existing ones in a single
// transaction. Updated players keep their position in the roster.
func (s *Store) Upsert(ctx context.Context, players ...Player) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `INSERT INTO players (name, rank, role, contact, note)
					VALUES (:name, :rank, :role, :contact, :note)
					ON CONFLICT(name) DO UPDATE SET
						rank = excluded.rank,
						role = excluded.role,
						contact = excluded.contact,
						note = excluded.note`

	for _, pl := range players {
		if _, err := tx.NamedExecContext(ctx, query, pl); err != nil {
			return fmt.Errorf("upsert player %s: %w", pl.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// List returns players with the given names in roster order, all players if
// no names are given.
func (s *Store) List(ctx context.Context, names []string) ([]Player, error) {
	query := `SELECT name, rank, role, contact, note FROM players`
	var args []any

	if len(names) > 0 {
		q, a, err := sqlx.In(query+` WHERE name IN (?)`, names)
		if err != nil {
			return nil, fmt.Errorf("build query: %w", err)
		}
		query, args = s.db.Rebind(q), a
	}

	var players []Player
	if err := s.db.SelectContext(ctx, &players, query+` ORDER BY seq`, args...); err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	return players, nil
}

// Get returns a player by the given name.
func (s *Store) Get(ctx context.Context, name string) (Player, error) {
	var pl Player
	err := s.db.GetContext(ctx, &pl, `SELECT name, rank, role, contact, note FROM players WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return Player{}, fmt.Errorf("get player %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return Player{}, fmt.Errorf("get player %s: %w", name, err)
	}
	return pl, nil
}

// Delete removes players with the given names. Nothing is removed if any of
// them is missing.
func (s *Store) Delete(ctx context.Context, names ...string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, name := range names {
		res, err := tx.ExecContext(ctx, `DELETE FROM players WHERE name = ?`, name)
		if err != nil {
			return fmt.Errorf("delete player %s: %w", name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("delete player %s: %w", name, ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// member is a snapshot of a player inside a saved balance.
type member struct {
	BalanceID string `db:"balance_id"`
	Team      int    `db:"team"`
	Position  int    `db:"position"`
	Player
}

// SaveBalance stores the balance together with snapshots of its players.
func (s *Store) SaveBalance(ctx context.Context, b Balance) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	const insertBalance = `INSERT INTO balances (id, created_at, team_count, team_capacity, strategy)
					VALUES (:id, :created_at, :team_count, :team_capacity, :strategy)`
	if _, err := tx.NamedExecContext(ctx, insertBalance, b); err != nil {
		return fmt.Errorf("insert balance: %w", err)
	}

	var members []member
	for idx, t := range b.Teams {
		for pos, pl := range t.Players {
			members = append(members, member{BalanceID: b.ID, Team: idx, Position: pos, Player: pl})
		}
	}
	for pos, pl := range b.Leftover {
		members = append(members, member{BalanceID: b.ID, Team: leftoverTeam, Position: pos, Player: pl})
	}

	const insertMember = `INSERT INTO balance_members (balance_id, team, position, name, rank, role, contact, note)
					VALUES (:balance_id, :team, :position, :name, :rank, :role, :contact, :note)`
	for _, m := range members {
		if _, err := tx.NamedExecContext(ctx, insertMember, m); err != nil {
			return fmt.Errorf("insert member %s: %w", m.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// LastBalance returns the most recently saved balance.
func (s *Store) LastBalance(ctx context.Context) (Balance, error) {
	var b Balance
	err := s.db.GetContext(ctx, &b, `SELECT id, created_at, team_count, team_capacity, strategy
		FROM balances ORDER BY seq DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return Balance{}, fmt.Errorf("get last balance: %w", ErrNotFound)
	}
	if err != nil {
		return Balance{}, fmt.Errorf("get last balance: %w", err)
	}

	var members []member
	if err := s.db.SelectContext(ctx, &members, `SELECT balance_id, team, position, name, rank, role, contact, note
		FROM balance_members WHERE balance_id = ? ORDER BY team, position`, b.ID); err != nil {
		return Balance{}, fmt.Errorf("select members: %w", err)
	}

	for _, m := range members {
		if m.Team == leftoverTeam {
			b.Leftover = append(b.Leftover, m.Player)
			continue
		}
		for len(b.Teams) <= m.Team {
			b.Teams = append(b.Teams, Team{Name: teamName(len(b.Teams))})
		}
		b.Teams[m.Team].Players = append(b.Teams[m.Team].Players, m.Player)
	}

	// average keeps empty teams, sum drops every incomplete one
	if b.Strategy == balance.Average.String() {
		for len(b.Teams) < b.TeamCount {
			b.Teams = append(b.Teams, Team{Name: teamName(len(b.Teams))})
		}
	}

	return b, nil
}
