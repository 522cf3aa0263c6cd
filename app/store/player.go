package store

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bobylevd/team-balancer/app/balance"
)

var (
	// ErrUnknownRank indicates a rank label outside of the rank table.
	ErrUnknownRank = errors.New("unknown rank")
	// ErrUnknownRole indicates a role label outside of the known roles.
	ErrUnknownRole = errors.New("unknown role")
)

// Rank is a competitive rank tier.
type Rank int

// Known ranks, from the lowest to the highest.
const (
	Unranked Rank = iota
	Iron
	Bronze
	Silver
	Gold
	Platinum
	Diamond
)

var rankNames = [...]string{"UNRANKED", "IRON", "BRONZE", "SILVER", "GOLD", "PLATINUM", "DIAMOND"}

var rankSkills = [...]int{0, 150, 450, 750, 1050, 1350, 1650}

// ParseRank returns the rank for the label, case-insensitive.
func ParseRank(s string) (Rank, error) {
	label := strings.ToUpper(strings.TrimSpace(s))
	if label == "PLATINIUM" {
		return Platinum, nil
	}
	for idx, name := range rankNames {
		if name == label {
			return Rank(idx), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRank, s)
}

// Skill returns the skill value of the rank.
func (r Rank) Skill() int {
	if r < 0 || int(r) >= len(rankSkills) {
		return 0
	}
	return rankSkills[r]
}

// String returns the rank label.
func (r Rank) String() string {
	if r < 0 || int(r) >= len(rankNames) {
		return fmt.Sprintf("RANK(%d)", int(r))
	}
	return rankNames[r]
}

// Value stores the rank as its label.
func (r Rank) Value() (driver.Value, error) { return r.String(), nil }

// Scan reads the rank from its label.
func (r *Rank) Scan(src any) (err error) {
	*r, err = ParseRank(asString(src))
	return err
}

// Role is the position a player prefers to play.
type Role int

// Known roles. Flex means no preference.
const (
	Flex Role = iota
	Controller
	Initiator
	Duelist
	Sentinel
)

var roleNames = [...]string{"FLEX", "CONTROLLER", "INITIATOR", "DUELIST", "SENTINEL"}

// ParseRole returns the role for the label, case-insensitive. An empty label
// is Flex.
func ParseRole(s string) (Role, error) {
	label := strings.ToUpper(strings.TrimSpace(s))
	if label == "" {
		return Flex, nil
	}
	for idx, name := range roleNames {
		if name == label {
			return Role(idx), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// String returns the role label.
func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return fmt.Sprintf("ROLE(%d)", int(r))
	}
	return roleNames[r]
}

// Value stores the role as its label.
func (r Role) Value() (driver.Value, error) { return r.String(), nil }

// Scan reads the role from its label.
func (r *Role) Scan(src any) (err error) {
	*r, err = ParseRole(asString(src))
	return err
}

func asString(src any) string {
	switch v := src.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Player represents a roster entry.
type Player struct {
	Name    string `db:"name"`
	Rank    Rank   `db:"rank"`
	Role    Role   `db:"role"`
	Contact string `db:"contact"`
	Note    string `db:"note"`
}

// Skill returns the skill value used for balancing.
func (p Player) Skill() int { return p.Rank.Skill() }

// Team represents a balanced team of players.
type Team struct {
	Name    string
	Players []Player
}

// String returns the team members separated by commas.
func (t Team) String() string {
	names := make([]string, len(t.Players))
	for i, p := range t.Players {
		names[i] = p.Name
	}
	return fmt.Sprintf("%s: %s", t.Name, strings.Join(names, ", "))
}

// Total returns the total skill of the team.
func (t Team) Total() int { return balance.Total(t.Players) }

// Average returns the average skill of the team.
func (t Team) Average() (float64, error) { return balance.AverageSkill(t.Players) }

// Lineup returns a role for every member in team order. A member takes the
// preferred role if no earlier member took it, otherwise plays Flex.
func (t Team) Lineup() []Role {
	taken := map[Role]bool{}
	res := make([]Role, len(t.Players))
	for i, p := range t.Players {
		if p.Role == Flex || taken[p.Role] {
			res[i] = Flex
			continue
		}
		taken[p.Role] = true
		res[i] = p.Role
	}
	return res
}

// Balance is a result of balancing a roster.
type Balance struct {
	ID           string    `db:"id"`
	CreatedAt    time.Time `db:"created_at"`
	TeamCount    int       `db:"team_count"`
	TeamCapacity int       `db:"team_capacity"`
	Strategy     string    `db:"strategy"`
	Teams        []Team    `db:"-"`
	Leftover     []Player  `db:"-"`
}

// Spread returns the difference between the strongest and the weakest team.
func (b Balance) Spread() int {
	teams := make([][]Player, len(b.Teams))
	for i, t := range b.Teams {
		teams[i] = t.Players
	}
	return balance.Spread(teams)
}

func teamName(idx int) string { return fmt.Sprintf("Team %d", idx+1) }
