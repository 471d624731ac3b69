/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package scheduling

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/friendsincode/castplan/internal/calendar"
)

// Summary renders a human-readable breakdown of a schedule, grouped by local
// calendar day. Intended for CLI output and review before committing.
func Summary(cfg *calendar.Config, schedule []time.Time) string {
	if len(schedule) == 0 {
		return "No items scheduled"
	}

	loc := cfg.Location()
	byDate := make(map[string][]time.Time)
	for _, instant := range schedule {
		key := instant.In(loc).Format("2006-01-02")
		byDate[key] = append(byDate[key], instant.In(loc))
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	first := schedule[0].In(loc)
	last := schedule[len(schedule)-1].In(loc)

	lines := []string{
		fmt.Sprintf("Schedule summary (%s):", cfg.Timezone()),
		fmt.Sprintf("Total items: %d", len(schedule)),
		fmt.Sprintf("First publish: %s", first.Format("2006-01-02 15:04")),
		fmt.Sprintf("Last publish: %s", last.Format("2006-01-02 15:04")),
		"",
		"Daily breakdown:",
	}

	for _, date := range dates {
		times := byDate[date]
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
		parts := make([]string, len(times))
		for i, t := range times {
			parts[i] = t.Format("15:04")
		}
		lines = append(lines, fmt.Sprintf("  %s: %d items at %s", date, len(times), strings.Join(parts, ", ")))
	}

	return strings.Join(lines, "\n")
}
