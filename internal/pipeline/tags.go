package pipeline

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// RunTags are the time-bucket tags every card of a run carries.
func RunTags(at time.Time) []string {
	return []string{
		fmt.Sprintf("Year::%04d", at.Year()),
		fmt.Sprintf("Month::%02d", int(at.Month())),
	}
}

// MergeTags unions tag lists, trimming blanks and dropping exact duplicates.
// The result is sorted.
func MergeTags(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, tag := range list {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	slices.Sort(out)
	return out
}
