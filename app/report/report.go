// Package report renders rosters and balanced teams as text tables.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/syohex/go-texttable"

	"github.com/bobylevd/team-balancer/app/store"
)

// Teams renders every team with its lineup and totals, then the leftover
// players and the spread between the strongest and the weakest team.
func Teams(b store.Balance) string {
	sb := &strings.Builder{}

	for _, t := range b.Teams {
		tbl := &texttable.TextTable{}
		_ = tbl.SetHeader("#", "Name", "Rank", "Skill", "Role", "Plays", "Contact", "Note")

		lineup := t.Lineup()
		for idx, pl := range t.Players {
			_ = tbl.AddRow(
				strconv.Itoa(idx+1),
				pl.Name,
				pl.Rank.String(),
				strconv.Itoa(pl.Skill()),
				pl.Role.String(),
				lineup[idx].String(),
				pl.Contact,
				pl.Note,
			)
		}

		fmt.Fprintf(sb, "%s (%d/%d), total %d, average %s\n",
			t.Name, len(t.Players), b.TeamCapacity, t.Total(), average(t))
		if len(t.Players) > 0 {
			sb.WriteString(tbl.Draw())
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(b.Leftover) > 0 {
		fmt.Fprintf(sb, "Leftover (%d)\n%s\n\n", len(b.Leftover), players(b.Leftover))
	}

	fmt.Fprintf(sb, "Spread: %d", b.Spread())
	return sb.String()
}

// Roster renders the players as a table.
func Roster(pls []store.Player) string {
	if len(pls) == 0 {
		return "roster is empty"
	}
	return players(pls)
}

func players(pls []store.Player) string {
	tbl := &texttable.TextTable{}
	_ = tbl.SetHeader("Name", "Rank", "Skill", "Role", "Contact", "Note")
	for _, pl := range pls {
		_ = tbl.AddRow(
			pl.Name,
			pl.Rank.String(),
			strconv.Itoa(pl.Skill()),
			pl.Role.String(),
			pl.Contact,
			pl.Note,
		)
	}
	return tbl.Draw()
}

func average(t store.Team) string {
	avg, err := t.Average()
	if err != nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", avg)
}
