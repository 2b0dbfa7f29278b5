package rank

import (
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/Einzelgaanger/darasa/core"
	"github.com/Einzelgaanger/darasa/core/track"
	"github.com/Einzelgaanger/darasa/core/unit"
	"github.com/Einzelgaanger/darasa/core/user"
)

// ErrInvalidCompletion flags a completion recorded before its assignment was
// posted. That is corrupt data, never clamped.
var ErrInvalidCompletion = errors.New("completion precedes assignment posting")

type (
	// AssignmentStore is the slice of the unit repository the engine reads.
	AssignmentStore interface {
		GetUnitByCode(code string) (unit.Unit, error)
		QueryAssignments(unitCode string) ([]unit.Assignment, error)
		QueryAllAssignments() ([]unit.Assignment, error)
	}

	// CompletionStore is the slice of the tracking repository the engine reads.
	CompletionStore interface {
		QueryUnitCompletions(unitCode string) ([]track.CompletionRecord, error)
		QueryAllCompletions() ([]track.CompletionRecord, error)
	}

	// UserStore resolves ranked users and persists the cached overall rank.
	UserStore interface {
		GetUsersByID(ids ...string) ([]user.User, error)
		UpdateOverallRank(id string, rank *int) error
	}

	Service struct {
		units       AssignmentStore
		completions CompletionStore
		users       UserStore
		recentN     int
	}
)

func NewService(units AssignmentStore, completions CompletionStore, users UserStore) *Service {
	recentN := core.Conf.Ranking.RecentCompletions
	if recentN <= 0 {
		recentN = 5
	}
	return &Service{units: units, completions: completions, users: users, recentN: recentN}
}

// ComputeRanking aggregates the unit's completion records into a
// deterministically ordered leaderboard. Ranking is always recomputed from the
// records; it is never read from a stored value. A unit with no completions
// yields an empty board.
func (svc *Service) ComputeRanking(unitCode string) ([]Entry, error) {
	if _, err := svc.units.GetUnitByCode(unitCode); err != nil {
		return nil, err
	}
	assignments, err := svc.units.QueryAssignments(unitCode)
	if err != nil {
		return nil, errors.Wrap(err, "querying unit assignments")
	}
	records, err := svc.completions.QueryUnitCompletions(unitCode)
	if err != nil {
		return nil, errors.Wrap(err, "querying unit completions")
	}
	return svc.rank(assignments, records)
}

// RefreshOverallRanks recomputes the cross-unit standing over all completion
// records and writes it back to each ranked user's cached overall rank. It is
// an explicit, separate step: ComputeRanking never consults the cache.
// Returns the number of users ranked.
func (svc *Service) RefreshOverallRanks() (int, error) {
	assignments, err := svc.units.QueryAllAssignments()
	if err != nil {
		return 0, errors.Wrap(err, "querying assignments")
	}
	records, err := svc.completions.QueryAllCompletions()
	if err != nil {
		return 0, errors.Wrap(err, "querying completions")
	}
	entries, err := svc.rank(assignments, records)
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		pos := e.Position
		if err := svc.users.UpdateOverallRank(e.UserID, &pos); err != nil {
			return 0, errors.Wrapf(err, "caching overall rank for user %s", e.UserID)
		}
	}
	return len(entries), nil
}

// aggregate is one user's accumulated completion stats.
type aggregate struct {
	userID      string
	total       time.Duration
	completions []RecentCompletion
}

func (svc *Service) rank(assignments []unit.Assignment, records []track.CompletionRecord) ([]Entry, error) {
	byID := make(map[string]unit.Assignment, len(assignments))
	for _, a := range assignments {
		byID[a.ID] = a
	}

	aggs := make(map[string]*aggregate)
	for _, rec := range records {
		a, ok := byID[rec.AssignmentID]
		if !ok {
			// record for an assignment deleted since; cascading deletes keep
			// this unreachable in the SQL store
			continue
		}
		took := rec.CompletedAt.Sub(a.CreatedAt)
		if took < 0 {
			return nil, errors.Wrapf(ErrInvalidCompletion, "assignment %s, user %s", rec.AssignmentID, rec.UserID)
		}
		agg := aggs[rec.UserID]
		if agg == nil {
			agg = &aggregate{userID: rec.UserID}
			aggs[rec.UserID] = agg
		}
		agg.total += took
		agg.completions = append(agg.completions, RecentCompletion{
			Title:          a.Title,
			CompletedAt:    rec.CompletedAt,
			CompletionTime: took,
		})
	}
	if len(aggs) == 0 {
		return []Entry{}, nil
	}

	userIDs := make([]string, 0, len(aggs))
	for id := range aggs {
		userIDs = append(userIDs, id)
	}
	users, err := svc.users.GetUsersByID(userIDs...)
	if err != nil {
		return nil, errors.Wrap(err, "resolving ranked users")
	}
	usersByID := make(map[string]user.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	entries := make([]Entry, 0, len(aggs))
	for id, agg := range aggs {
		usr, ok := usersByID[id]
		if !ok {
			continue
		}
		n := len(agg.completions)
		sort.Slice(agg.completions, func(i, j int) bool {
			return agg.completions[i].CompletedAt.After(agg.completions[j].CompletedAt)
		})
		recent := agg.completions
		if len(recent) > svc.recentN {
			recent = recent[:svc.recentN]
		}
		entries = append(entries, Entry{
			UserID:                id,
			Name:                  usr.Name,
			ProfileImageURL:       usr.ProfileImageURL,
			OverallRank:           usr.OverallRank,
			AverageCompletionTime: agg.total / time.Duration(n),
			CompletedAssignments:  n,
			RecentCompletions:     recent,
		})
	}

	// faster average first; exact time ties go to whoever completed more;
	// user id keeps the order deterministic
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].AverageCompletionTime != entries[j].AverageCompletionTime {
			return entries[i].AverageCompletionTime < entries[j].AverageCompletionTime
		}
		if entries[i].CompletedAssignments != entries[j].CompletedAssignments {
			return entries[i].CompletedAssignments > entries[j].CompletedAssignments
		}
		return entries[i].UserID < entries[j].UserID
	})

	// positions are strictly increasing: residual ties do not share a number
	for i := range entries {
		entries[i].Position = i + 1
		entries[i].Badge = BadgeForPosition(i + 1)
	}
	return entries, nil
}
