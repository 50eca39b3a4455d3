package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/skillswap/models"
)

func TestFindMatchesOverlapAndExclusion(t *testing.T) {
	st := newTestStore(t)
	svc := NewMatchService(st)
	ctx := context.Background()

	learner := seedUser(t, st, "Learner", models.SkillList{}, models.SkillList{"Go", "Piano"})
	goTeacher := seedUser(t, st, "GoTeacher", models.SkillList{"Go", "Rust"}, models.SkillList{})
	bothTeacher := seedUser(t, st, "BothTeacher", models.SkillList{"Go", "Piano"}, models.SkillList{})
	seedUser(t, st, "NoOverlap", models.SkillList{"Knitting"}, models.SkillList{})

	matches, err := svc.FindMatches(ctx, learner.SkillsToLearn, learner.ID, DashboardMatchLimit)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	// Two shared skills outrank one.
	assert.Equal(t, bothTeacher.ID, matches[0].User.ID)
	assert.ElementsMatch(t, models.SkillList{"Go", "Piano"}, matches[0].SharedSkills)
	assert.Equal(t, goTeacher.ID, matches[1].User.ID)
	assert.Equal(t, models.SkillList{"Go"}, matches[1].SharedSkills)

	for _, m := range matches {
		assert.NotEqual(t, learner.ID, m.User.ID, "caller must never match themselves")
	}
}

func TestFindMatchesEmptyWishListShortCircuits(t *testing.T) {
	st := newTestStore(t)
	svc := NewMatchService(st)

	seedUser(t, st, "Teacher", models.SkillList{"Go"}, models.SkillList{})

	matches, err := svc.FindMatches(context.Background(), models.SkillList{}, uuid.New(), DashboardMatchLimit)
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.NotNil(t, matches, "empty result must still serialize as an array")
}

func TestFindMatchesCaseSensitive(t *testing.T) {
	st := newTestStore(t)
	svc := NewMatchService(st)

	learner := seedUser(t, st, "Learner", models.SkillList{}, models.SkillList{"go"})
	seedUser(t, st, "Teacher", models.SkillList{"Go"}, models.SkillList{})

	matches, err := svc.FindMatches(context.Background(), learner.SkillsToLearn, learner.ID, DashboardMatchLimit)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindMatchesLimitAndTieBreak(t *testing.T) {
	st := newTestStore(t)
	svc := NewMatchService(st)
	ctx := context.Background()

	learner := seedUser(t, st, "Learner", models.SkillList{}, models.SkillList{"Go"})
	for i := 0; i < DashboardMatchLimit+3; i++ {
		seedUser(t, st, fmt.Sprintf("Teacher%d", i), models.SkillList{"Go"}, models.SkillList{})
	}

	matches, err := svc.FindMatches(ctx, learner.SkillsToLearn, learner.ID, DashboardMatchLimit)
	require.NoError(t, err)
	assert.Len(t, matches, DashboardMatchLimit)

	// Equal-overlap candidates are ordered by id, so repeated queries page
	// the same way.
	for i := 1; i < len(matches); i++ {
		assert.Less(t, matches[i-1].User.ID.String(), matches[i].User.ID.String())
	}

	again, err := svc.FindMatches(ctx, learner.SkillsToLearn, learner.ID, DashboardMatchLimit)
	require.NoError(t, err)
	assert.Equal(t, matches, again)
}
