package conflict

import "sort"

// Group is a cluster of intervals on one day whose times transitively
// overlap. Groups of size 1 are not reported.
type Group struct {
	Date      string     `json:"date"`
	Intervals []Interval `json:"intervals"`
}

// GroupConflicts clusters the given intervals by transitive overlap within
// each day. Two intervals land in the same group when a chain of pairwise
// overlaps connects them. Output ordering is deterministic: groups sorted by
// date then earliest start, members sorted by start then title.
func GroupConflicts(items []Interval) []Group {
	byDate := make(map[string][]Interval)
	for _, item := range items {
		byDate[item.Date] = append(byDate[item.Date], item)
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	var groups []Group
	for _, date := range dates {
		day := byDate[date]

		// Union-find over the day's intervals.
		parent := make([]int, len(day))
		for i := range parent {
			parent[i] = i
		}
		var find func(int) int
		find = func(i int) int {
			for parent[i] != i {
				parent[i] = parent[parent[i]]
				i = parent[i]
			}
			return i
		}
		union := func(a, b int) {
			ra, rb := find(a), find(b)
			if ra != rb {
				parent[rb] = ra
			}
		}

		for i := 0; i < len(day); i++ {
			for j := i + 1; j < len(day); j++ {
				if Overlaps(day[i], day[j]) {
					union(i, j)
				}
			}
		}

		members := make(map[int][]Interval)
		for i := range day {
			root := find(i)
			members[root] = append(members[root], day[i])
		}

		var dayGroups []Group
		for _, ivs := range members {
			if len(ivs) < 2 {
				continue
			}
			sort.Slice(ivs, func(a, b int) bool {
				if ivs[a].Start != ivs[b].Start {
					return ivs[a].Start < ivs[b].Start
				}
				return ivs[a].Title < ivs[b].Title
			})
			dayGroups = append(dayGroups, Group{Date: date, Intervals: ivs})
		}
		sort.Slice(dayGroups, func(a, b int) bool {
			return dayGroups[a].Intervals[0].Start < dayGroups[b].Intervals[0].Start
		})
		groups = append(groups, dayGroups...)
	}
	return groups
}
