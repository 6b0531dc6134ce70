package services

import (
	"campus-server/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func eventWithTags(title string, start time.Time, tags ...string) models.Event {
	return models.Event{
		ID:         primitive.NewObjectID(),
		Title:      title,
		StartTime:  start,
		EndTime:    start.Add(2 * time.Hour),
		Categories: tags,
	}
}

func TestRecommend_EmptyInputs(t *testing.T) {
	now := time.Now()
	user := models.User{Interests: []string{"Music"}}

	assert.Empty(t, Recommend(nil, &user, now))
	assert.Empty(t, Recommend([]models.Event{}, &user, now))
	assert.Empty(t, Recommend([]models.Event{eventWithTags("e", now.Add(time.Hour), "Music")}, nil, now))
}

func TestRecommend_MatchesInterests(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e1 := eventWithTags("concert", now.Add(24*time.Hour), "Music")
	e2 := eventWithTags("old concert", now.Add(-24*time.Hour), "Music")
	e3 := eventWithTags("game", now.Add(48*time.Hour), "Sports")

	user := models.User{Interests: []string{"Music"}}
	got := Recommend([]models.Event{e1, e2, e3}, &user, now)

	require.Len(t, got, 1)
	assert.Equal(t, e1.ID, got[0].ID)
}

func TestRecommend_MatchesMajors(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e1 := eventWithTags("career fair", now.Add(time.Hour), "Computer Science")

	user := models.User{Majors: []string{"Computer Science"}}
	got := Recommend([]models.Event{e1}, &user, now)

	require.Len(t, got, 1)
	assert.Equal(t, e1.ID, got[0].ID)
}

func TestRecommend_FallbackToAllUpcoming(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e1 := eventWithTags("concert", now.Add(24*time.Hour), "Music")
	e2 := eventWithTags("old concert", now.Add(-24*time.Hour), "Music")
	e3 := eventWithTags("game", now.Add(48*time.Hour), "Sports")

	user := models.User{Interests: []string{"Art"}}
	got := Recommend([]models.Event{e1, e2, e3}, &user, now)

	require.Len(t, got, 2)
	assert.Equal(t, e1.ID, got[0].ID)
	assert.Equal(t, e3.ID, got[1].ID)
}

func TestRecommend_NoInterestsAlwaysFallsBack(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e1 := eventWithTags("concert", now.Add(time.Hour), "Music")
	e2 := eventWithTags("game", now.Add(2*time.Hour), "Sports")

	user := models.User{}
	got := Recommend([]models.Event{e1, e2}, &user, now)
	assert.Len(t, got, 2)
}

func TestRecommend_PastOnlyCatalogIsEmpty(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e1 := eventWithTags("old concert", now.Add(-time.Hour), "Music")

	user := models.User{Interests: []string{"Music"}}
	assert.Empty(t, Recommend([]models.Event{e1}, &user, now))
}

func TestRecommend_StartingExactlyNowIsExcluded(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e1 := eventWithTags("starting now", now, "Music")

	user := models.User{Interests: []string{"Music"}}
	assert.Empty(t, Recommend([]models.Event{e1}, &user, now))
}

func TestSortByStartTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	later := eventWithTags("later", now.Add(48*time.Hour), "Music")
	sooner := eventWithTags("sooner", now.Add(time.Hour), "Music")

	events := []models.Event{later, sooner}
	SortByStartTime(events)

	assert.Equal(t, "sooner", events[0].Title)
	assert.Equal(t, "later", events[1].Title)
}
