package balance

import "fmt"

// Total returns the sum of skill values of the team members.
func Total[T Rated](team []T) int {
	sum := 0
	for _, e := range team {
		sum += e.Skill()
	}
	return sum
}

// AverageSkill returns the mean skill value of the team.
func AverageSkill[T Rated](team []T) (float64, error) {
	if len(team) == 0 {
		return 0, fmt.Errorf("average skill: %w", ErrEmptyInput)
	}
	return float64(Total(team)) / float64(len(team)), nil
}

// Spread returns the difference between the highest and the lowest team total.
func Spread[T Rated](teams [][]T) int {
	if len(teams) == 0 {
		return 0
	}
	lo, hi := Total(teams[0]), Total(teams[0])
	for _, t := range teams[1:] {
		sum := Total(t)
		lo, hi = min(lo, sum), max(hi, sum)
	}
	return hi - lo
}
