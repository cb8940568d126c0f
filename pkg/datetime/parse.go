// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/shelter-proposal/pkg/constants"
)

const (
	// DateLayout is the format expected in config files and is also the output
	// date format.
	DateLayout = constants.DateLayout
)

// ParseRange parses an inclusive start/finish pair in DateLayout.
func ParseRange(start, finish string) (time.Time, time.Time, error) {
	startT, err := time.Parse(DateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	finishT, err := time.Parse(DateLayout, finish)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid finish date %q: %w", finish, err)
	}
	return startT, finishT, nil
}

// InclusiveDays returns the number of calendar days covered by [start, finish].
// A finish before start yields zero.
func InclusiveDays(start, finish time.Time) int {
	if finish.Before(start) {
		return 0
	}
	return int(finish.Sub(start).Hours()/24) + 1
}

// DateBeforeDate returns true if firstDate is strictly before secondDate.
func DateBeforeDate(firstDate string, secondDate string) (bool, error) {
	firstDateT, err := time.Parse(DateLayout, firstDate)
	if err != nil {
		return false, err
	}
	secondDateT, err := time.Parse(DateLayout, secondDate)
	if err != nil {
		return false, err
	}
	return firstDateT.Before(secondDateT), nil
}
