package services

import (
	"campus-server/models"
	"sort"
	"time"
)

// Recommend filters events down to upcoming ones matching the user's
// declared interests or majors. When nothing matches, every upcoming
// event is returned instead so the feed is never empty while any
// future event exists. Pure; ordering is the caller's concern.
func Recommend(events []models.Event, user *models.User, now time.Time) []models.Event {
	if user == nil || len(events) == 0 {
		return []models.Event{}
	}

	relevant := make(map[string]struct{}, len(user.Interests)+len(user.Majors))
	for _, tag := range user.Interests {
		relevant[tag] = struct{}{}
	}
	for _, tag := range user.Majors {
		relevant[tag] = struct{}{}
	}

	matched := []models.Event{}
	upcoming := []models.Event{}
	for _, event := range events {
		if !event.Upcoming(now) {
			continue
		}
		upcoming = append(upcoming, event)
		for _, category := range event.Categories {
			if _, ok := relevant[category]; ok {
				matched = append(matched, event)
				break
			}
		}
	}

	if len(matched) > 0 {
		return matched
	}
	return upcoming
}

// SortByStartTime orders events ascending by start time, in place.
func SortByStartTime(events []models.Event) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
}
