// Package analytics derives display aggregates from the merged watch
// dataset. Everything here is pure given the dataset.
package analytics

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/watchtally/watchtally/internal/models"
)

var (
	hoursPattern   = regexp.MustCompile(`(\d+)H`)
	minutesPattern = regexp.MustCompile(`(\d+)M`)
	secondsPattern = regexp.MustCompile(`(\d+)S`)
)

// WatchTime is a total watch duration broken down for display
type WatchTime struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// TotalWatchTime sums ISO-8601-style duration codes (e.g. PT1H30M15S) into a
// days/hours/minutes breakdown. Hour, minute and second groups are extracted
// independently; a missing group counts as zero.
func TotalWatchTime(durations []string) WatchTime {
	var totalHours, totalMinutes, totalSeconds int
	for _, code := range durations {
		totalHours += matchedInt(hoursPattern, code)
		totalMinutes += matchedInt(minutesPattern, code)
		totalSeconds += matchedInt(secondsPattern, code)
	}

	total := time.Duration(totalHours)*time.Hour +
		time.Duration(totalMinutes)*time.Minute +
		time.Duration(totalSeconds)*time.Second

	return WatchTime{
		Days:    int(total / (24 * time.Hour)),
		Hours:   int(total % (24 * time.Hour) / time.Hour),
		Minutes: int(total % time.Hour / time.Minute),
	}
}

func matchedInt(pattern *regexp.Regexp, code string) int {
	matches := pattern.FindStringSubmatch(code)
	if matches == nil {
		return 0
	}
	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0
	}
	return value
}

// UniqueVideos returns the de-duplicated (title, channel) pairs of the
// dataset, preserving first-seen order
func UniqueVideos(rows []models.WatchRow) []models.VideoKey {
	seen := make(map[models.VideoKey]struct{}, len(rows))
	unique := make([]models.VideoKey, 0, len(rows))
	for _, row := range rows {
		key := models.VideoKey{Title: row.Title, Channel: row.Channel}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, key)
	}
	return unique
}

// PageCount computes the number of listing pages for n unique videos
func PageCount(n, pageSize int) int {
	if pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}
	return (n + pageSize - 1) / pageSize
}

// UniqueChannels returns the cardinality of the channel field
func UniqueChannels(rows []models.WatchRow) int {
	channels := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		channels[row.Channel] = struct{}{}
	}
	return len(channels)
}

// Ranked is one entry of a frequency ranking
type Ranked struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TopChannels ranks channels by watch count, most watched first. Empty
// channel values are ignored; ties keep first-seen order.
func TopChannels(rows []models.WatchRow, n int) []Ranked {
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Channel)
	}
	return topN(names, n)
}

// TopVideos ranks video titles by watch count, most watched first
func TopVideos(rows []models.WatchRow, n int) []Ranked {
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Title)
	}
	return topN(names, n)
}

func topN(names []string, n int) []Ranked {
	counts := make(map[string]int, len(names))
	firstSeen := make(map[string]int, len(names))
	order := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := counts[name]; !ok {
			firstSeen[name] = len(order)
			order = append(order, name)
		}
		counts[name]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if n > len(order) {
		n = len(order)
	}
	ranked := make([]Ranked, 0, n)
	for _, name := range order[:n] {
		ranked = append(ranked, Ranked{Name: name, Count: counts[name]})
	}
	return ranked
}
