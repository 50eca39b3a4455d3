package services

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/skillswap/skillswap/models"
	"github.com/skillswap/skillswap/store"
)

// Result caps for the two match surfaces.
const (
	DashboardMatchLimit = 6
	PartnerListLimit    = 20
)

// Match pairs a candidate partner with the skills they can teach from the
// learner's wish list.
type Match struct {
	User         models.User      `json:"user"`
	SharedSkills models.SkillList `json:"shared_skills"`
}

// MatchService computes candidate teaching partners by skill-set overlap.
type MatchService struct {
	store *store.Store
}

func NewMatchService(s *store.Store) *MatchService {
	return &MatchService{store: s}
}

// FindMatches returns up to limit users whose SkillsToTeach overlaps
// learnerSkills (any-overlap, case-sensitive), never including exclude and
// never a zero-overlap user. An empty wish list short-circuits to an empty
// result so the caller can prompt for profile completion instead.
//
// Ranking is deterministic: overlap count descending, then user id
// ascending. The store's iteration order is not relied on.
func (m *MatchService) FindMatches(ctx context.Context, learnerSkills models.SkillList, exclude uuid.UUID, limit int) ([]Match, error) {
	if len(learnerSkills) == 0 {
		return []Match{}, nil
	}
	if limit <= 0 {
		limit = DashboardMatchLimit
	}

	candidates, err := m.store.ListUsersExcept(ctx, exclude)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, limit)
	for _, u := range candidates {
		shared := u.SkillsToTeach.Overlap(learnerSkills)
		if len(shared) == 0 {
			continue
		}
		matches = append(matches, Match{User: u, SharedSkills: shared})
	}

	sort.Slice(matches, func(i, j int) bool {
		if len(matches[i].SharedSkills) != len(matches[j].SharedSkills) {
			return len(matches[i].SharedSkills) > len(matches[j].SharedSkills)
		}
		return matches[i].User.ID.String() < matches[j].User.ID.String()
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
