// Package balance splits a roster of rated entities into teams of equal size
// with close aggregate skill.
package balance

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// DefaultTeamCapacity is the size of a complete team.
const DefaultTeamCapacity = 5

var (
	// ErrInvalidParameter is returned when team count or capacity is not positive.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrNegativeSkill is returned when an entity carries a negative skill value.
	ErrNegativeSkill = errors.New("negative skill value")
	// ErrEmptyInput is returned when an average is requested for an empty team.
	ErrEmptyInput = errors.New("empty input")
	// ErrUnknownStrategy is returned by ParseStrategy for unsupported names.
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// Rated is anything that can be placed into a team.
type Rated interface {
	Skill() int
}

// Strategy selects the team that receives the next entity.
type Strategy int

const (
	// Average gives the next entity to the open team with the lowest
	// average skill.
	Average Strategy = iota
	// Sum gives the next entity to the open team with the lowest total skill
	// and drops teams that end up incomplete into the leftover.
	Sum
)

// String returns the strategy name accepted by ParseStrategy.
func (s Strategy) String() string {
	switch s {
	case Average:
		return "average"
	case Sum:
		return "sum"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy returns the strategy with the given name, case-insensitive.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "average", "avg":
		return Average, nil
	case "sum", "total":
		return Sum, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Options defines the shape of the result.
type Options struct {
	TeamCount    int
	TeamCapacity int
	Strategy     Strategy
}

// Result is the outcome of balancing. Every input entity is either in one of
// the teams or in the leftover.
type Result[T Rated] struct {
	Teams    [][]T
	Leftover []T
}

// Balance places entities into opts.TeamCount teams of at most
// opts.TeamCapacity members. Entities are visited from the highest skill to
// the lowest, equal skills in input order, and each one goes to the open team
// picked by the strategy, ties going to the lowest team index. Entities that
// find every team full end up in the leftover.
func Balance[T Rated](entities []T, opts Options) (Result[T], error) {
	if opts.TeamCount < 1 {
		return Result[T]{}, fmt.Errorf("%w: team count %d", ErrInvalidParameter, opts.TeamCount)
	}
	if opts.TeamCapacity < 1 {
		return Result[T]{}, fmt.Errorf("%w: team capacity %d", ErrInvalidParameter, opts.TeamCapacity)
	}
	if opts.Strategy != Average && opts.Strategy != Sum {
		return Result[T]{}, fmt.Errorf("%w: %s", ErrUnknownStrategy, opts.Strategy)
	}
	for idx, e := range entities {
		if e.Skill() < 0 {
			return Result[T]{}, fmt.Errorf("%w: entity #%d has %d", ErrNegativeSkill, idx, e.Skill())
		}
	}

	if len(entities) == 0 {
		return Result[T]{}, nil
	}

	sorted := slices.Clone(entities)
	slices.SortStableFunc(sorted, func(a, b T) int { return b.Skill() - a.Skill() })

	teams := make([]team[T], opts.TeamCount)
	var leftover []T
	for _, e := range sorted {
		idx := pick(teams, opts)
		if idx < 0 {
			leftover = append(leftover, e)
			continue
		}
		teams[idx].add(e)
	}

	res := Result[T]{Leftover: leftover}
	for _, t := range teams {
		if opts.Strategy == Sum && len(t.members) < opts.TeamCapacity {
			res.Leftover = append(res.Leftover, t.members...)
			continue
		}
		res.Teams = append(res.Teams, t.members)
	}

	return res, nil
}

// pick returns the index of the team that receives the next entity, or -1
// if every team is full.
func pick[T Rated](teams []team[T], opts Options) int {
	best := -1
	for idx := range teams {
		if len(teams[idx].members) >= opts.TeamCapacity {
			continue
		}
		if best < 0 || teams[idx].less(teams[best], opts.Strategy) {
			best = idx
		}
	}
	return best
}

// team accumulates members together with their running skill total.
type team[T Rated] struct {
	members []T
	sum     int
}

func (t *team[T]) add(e T) {
	t.members = append(t.members, e)
	t.sum += e.Skill()
}

// less reports whether t should be preferred over o. Averages are compared
// by cross-multiplication, an empty team has average 0.
func (t team[T]) less(o team[T], s Strategy) bool {
	if s == Sum {
		return t.sum < o.sum
	}
	tn, on := max(len(t.members), 1), max(len(o.members), 1)
	return t.sum*on < o.sum*tn
}
