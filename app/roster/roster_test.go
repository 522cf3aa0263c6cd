package roster

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobylevd/team-balancer/app/store"
)

func TestLoad(t *testing.T) {
	const data = "\xef\xbb\xbfName, Rank, Role, Discord, Comment\n" +
		"alice, Diamond, duelist, alice#0001, \"late, maybe\"\n" +
		"\n" +
		"bob, platinium, , bob#0002,\n" +
		"carl, unranked, SENTINEL\n"

	players, err := Load(strings.NewReader(data), Options{})
	require.NoError(t, err)
	assert.Equal(t, []store.Player{
		{Name: "alice", Rank: store.Diamond, Role: store.Duelist, Contact: "alice#0001", Note: "late, maybe"},
		{Name: "bob", Rank: store.Platinum, Role: store.Flex, Contact: "bob#0002"},
		{Name: "carl", Rank: store.Unranked, Role: store.Sentinel},
	}, players)
}

func TestLoad_Delimiters(t *testing.T) {
	tests := map[string]string{
		"semicolon": "rank;nick\ngold;alice\nsilver;bob\n",
		"tab":       "rank\tnick\ngold\talice\nsilver\tbob\n",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			players, err := Load(strings.NewReader(data), Options{})
			require.NoError(t, err)
			require.Len(t, players, 2)
			assert.Equal(t, store.Player{Name: "alice", Rank: store.Gold}, players[0])
			assert.Equal(t, store.Player{Name: "bob", Rank: store.Silver}, players[1])
		})
	}

	players, err := Load(strings.NewReader("name|rank\nalice|iron\n"), Options{Comma: '|'})
	require.NoError(t, err)
	assert.Equal(t, []store.Player{{Name: "alice", Rank: store.Iron}}, players)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		err  error
		msg  string
	}{
		{name: "empty", data: "", err: ErrMissingColumn},
		{name: "no rank column", data: "name,role\nalice,duelist\n", err: ErrMissingColumn, msg: "rank"},
		{name: "unknown rank", data: "name,rank\nalice,gold\nbob,radiant\n", err: store.ErrUnknownRank, msg: "line 3"},
		{name: "unknown role", data: "name,rank,role\nalice,gold,support\n", err: store.ErrUnknownRole, msg: "line 2"},
		{name: "empty name", data: "name,rank\n,gold\n", err: ErrEmptyName},
		{name: "duplicate", data: "name,rank\nalice,gold\nAlice,iron\n", err: ErrDuplicatePlayer, msg: "first seen on line 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			players, err := Load(strings.NewReader(tt.data), Options{})
			require.ErrorIs(t, err, tt.err)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Nil(t, players)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,rank\nalice,bronze\n"), 0o600))

	players, err := LoadFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []store.Player{{Name: "alice", Rank: store.Bronze}}, players)

	_, err = LoadFile(filepath.Join(t.TempDir(), "nope.csv"), Options{})
	require.ErrorIs(t, err, os.ErrNotExist)
}
