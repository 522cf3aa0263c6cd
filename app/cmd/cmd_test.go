package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/glebarez/go-sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobylevd/team-balancer/app/balance"
)

func writeRoster(t *testing.T, n int) string {
	t.Helper()
	ranks := []string{"diamond", "platinum", "gold", "silver", "bronze"}
	sb := &strings.Builder{}
	sb.WriteString("name;rank;role\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(sb, "player%02d;%s;\n", i, ranks[i%len(ranks)])
	}

	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o600))
	return path
}

func TestBalance_File(t *testing.T) {
	out := &bytes.Buffer{}
	cmd := &Balance{File: writeRoster(t, 17), Teams: 3, Size: 5, Strategy: "sum"}
	cmd.Set(CommonOpts{Stdout: out, StoreLocation: filepath.Join(t.TempDir(), "unused.db")})

	require.NoError(t, cmd.Execute(nil))
	assert.Contains(t, out.String(), "Team 3 (5/5)")
	assert.Contains(t, out.String(), "Leftover (2)")
	assert.Contains(t, out.String(), "Spread: 300")
	assert.NoFileExists(t, cmd.StoreLocation, "store is not touched without --save")
}

func TestBalance_Store(t *testing.T) {
	db := filepath.Join(t.TempDir(), "teams.db")
	out := &bytes.Buffer{}
	common := CommonOpts{Stdout: out, StoreLocation: db}

	imp := &Import{File: writeRoster(t, 10)}
	imp.Set(common)
	require.NoError(t, imp.Execute(nil))
	assert.Contains(t, out.String(), "imported 10 players")

	out.Reset()
	bal := &Balance{Teams: 2, Size: 5, Strategy: "average", Save: true}
	bal.Set(common)
	require.NoError(t, bal.Execute(nil))
	assert.Contains(t, out.String(), "Team 1 (5/5)")
	assert.Contains(t, out.String(), "Team 2 (5/5)")
	assert.NotContains(t, out.String(), "Leftover")

	out.Reset()
	bal = &Balance{Teams: 1, Size: 5, Strategy: "average", Names: []string{"player00", "ghost"}}
	bal.Set(common)
	require.ErrorContains(t, bal.Execute(nil), "ghost")

	out.Reset()
	ros := &Roster{Remove: []string{"player00"}}
	ros.Set(common)
	require.NoError(t, ros.Execute(nil))
	assert.NotContains(t, out.String(), "player00")
	assert.Contains(t, out.String(), "player09")
}

func TestBalance_Invalid(t *testing.T) {
	cmd := &Balance{File: writeRoster(t, 3), Teams: 0, Size: 5, Strategy: "average"}
	cmd.Set(CommonOpts{Stdout: &bytes.Buffer{}})
	require.ErrorIs(t, cmd.Execute(nil), balance.ErrInvalidParameter)

	cmd = &Balance{File: writeRoster(t, 3), Teams: 1, Size: 5, Strategy: "best"}
	require.ErrorIs(t, cmd.Execute(nil), balance.ErrUnknownStrategy)
}

func TestParseComma(t *testing.T) {
	for in, want := range map[string]rune{"": 0, `\t`: '\t', "tab": '\t', ";": ';'} {
		got, err := parseComma(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}

	_, err := parseComma(";;")
	require.Error(t, err)
}
