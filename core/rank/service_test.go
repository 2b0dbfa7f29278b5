package rank_test

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Einzelgaanger/darasa/core/rank"
	"github.com/Einzelgaanger/darasa/core/track"
	"github.com/Einzelgaanger/darasa/core/unit"
	"github.com/Einzelgaanger/darasa/core/user"
	"github.com/Einzelgaanger/darasa/storage/database/dummy"
	"github.com/Einzelgaanger/darasa/tests"
)

type rankFixture struct {
	svc       *rank.Service
	usrRepo   user.Repository
	unitRepo  unit.Repository
	trackRepo track.Repository
}

func setup(t *testing.T) *rankFixture {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)

	usrRepo := dummydb.NewUserRepository(db)
	unitRepo := dummydb.NewUnitRepository(db)
	trackRepo := dummydb.NewTrackRepository(db)
	return &rankFixture{
		svc:       rank.NewService(unitRepo, trackRepo, usrRepo),
		usrRepo:   usrRepo,
		unitRepo:  unitRepo,
		trackRepo: trackRepo,
	}
}

func Test_Service_ComputeRanking_unknownUnit(t *testing.T) {
	f := setup(t)

	_, err := f.svc.ComputeRanking("MAT 2101")
	assert.Equal(t, unit.ErrNotFound, errors.Cause(err))
}

func Test_Service_ComputeRanking_noCompletions(t *testing.T) {
	f := setup(t)

	teacher := testutil.CreateUser(t, f.usrRepo, "Teacher", "t-001", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	testutil.CreateUnit(t, f.unitRepo, "MAT 2101", "Calculus I", teacher.ID)
	testutil.CreateAssignment(t, f.unitRepo, "MAT 2101", "Problem set 1", teacher.ID)

	entries, err := f.svc.ComputeRanking("MAT 2101")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries) // an empty board, not a missing one
}

func Test_Service_ComputeRanking_ordering(t *testing.T) {
	f := setup(t)

	teacher := testutil.CreateUser(t, f.usrRepo, "Teacher", "t-001", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	testutil.CreateUnit(t, f.unitRepo, "MAT 2101", "Calculus I", teacher.ID)

	posted := time.Date(2021, 3, 1, 8, 0, 0, 0, time.UTC)
	a1 := testutil.CreateAssignment(t, f.unitRepo, "MAT 2101", "Problem set 1", teacher.ID, posted)
	a2 := testutil.CreateAssignment(t, f.unitRepo, "MAT 2101", "Problem set 2", teacher.ID, posted)

	fast := testutil.CreateUser(t, f.usrRepo, "Fast", "s-001", "fast@test.cd", "", []string{user.RoleStudent}, true)
	slow := testutil.CreateUser(t, f.usrRepo, "Slow", "s-002", "slow@test.cd", "", []string{user.RoleStudent}, true)
	busy := testutil.CreateUser(t, f.usrRepo, "Busy", "s-003", "busy@test.cd", "", []string{user.RoleStudent}, true)

	// fast: one completion, 1h average
	testutil.CreateCompletion(t, f.trackRepo, a1.ID, fast.ID, posted.Add(time.Hour))
	// busy: two completions, 2h average
	testutil.CreateCompletion(t, f.trackRepo, a1.ID, busy.ID, posted.Add(time.Hour))
	testutil.CreateCompletion(t, f.trackRepo, a2.ID, busy.ID, posted.Add(3*time.Hour))
	// slow: one completion, 5h average
	testutil.CreateCompletion(t, f.trackRepo, a1.ID, slow.ID, posted.Add(5*time.Hour))

	entries, err := f.svc.ComputeRanking("MAT 2101")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, fast.ID, entries[0].UserID)
	assert.Equal(t, busy.ID, entries[1].UserID)
	assert.Equal(t, slow.ID, entries[2].UserID)

	assert.Equal(t, time.Hour, entries[0].AverageCompletionTime)
	assert.Equal(t, 2*time.Hour, entries[1].AverageCompletionTime)
	assert.Equal(t, 5*time.Hour, entries[2].AverageCompletionTime)

	assert.Equal(t, 1, entries[0].CompletedAssignments)
	assert.Equal(t, 2, entries[1].CompletedAssignments)

	for i, e := range entries {
		assert.Equal(t, i+1, e.Position)
	}
	assert.Equal(t, rank.BadgeGold, entries[0].Badge)
	assert.Equal(t, rank.BadgeSilver, entries[1].Badge)
	assert.Equal(t, rank.BadgeSilver, entries[2].Badge)
}

func Test_Service_ComputeRanking_tieBreaks(t *testing.T) {
	f := setup(t)

	teacher := testutil.CreateUser(t, f.usrRepo, "Teacher", "t-001", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	testutil.CreateUnit(t, f.unitRepo, "CSC 3202", "Algorithms", teacher.ID)

	posted := time.Date(2021, 3, 1, 8, 0, 0, 0, time.UTC)
	a1 := testutil.CreateAssignment(t, f.unitRepo, "CSC 3202", "Sorting", teacher.ID, posted)
	a2 := testutil.CreateAssignment(t, f.unitRepo, "CSC 3202", "Graphs", teacher.ID, posted)

	one := testutil.CreateUser(t, f.usrRepo, "One", "s-001", "one@test.cd", "", []string{user.RoleStudent}, true)
	two := testutil.CreateUser(t, f.usrRepo, "Two", "s-002", "two@test.cd", "", []string{user.RoleStudent}, true)

	// identical 2h average; `two` completed more assignments and must lead
	testutil.CreateCompletion(t, f.trackRepo, a1.ID, one.ID, posted.Add(2*time.Hour))
	testutil.CreateCompletion(t, f.trackRepo, a1.ID, two.ID, posted.Add(time.Hour))
	testutil.CreateCompletion(t, f.trackRepo, a2.ID, two.ID, posted.Add(3*time.Hour))

	entries, err := f.svc.ComputeRanking("CSC 3202")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, two.ID, entries[0].UserID)
	assert.Equal(t, one.ID, entries[1].UserID)

	// positions stay strictly increasing even on residual full ties
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, 2, entries[1].Position)
}

func Test_Service_ComputeRanking_fullTieFallsBackToUserID(t *testing.T) {
	f := setup(t)

	teacher := testutil.CreateUser(t, f.usrRepo, "Teacher", "t-001", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	testutil.CreateUnit(t, f.unitRepo, "PHY 1104", "Mechanics", teacher.ID)

	posted := time.Date(2021, 3, 1, 8, 0, 0, 0, time.UTC)
	a1 := testutil.CreateAssignment(t, f.unitRepo, "PHY 1104", "Kinematics", teacher.ID, posted)

	one := testutil.CreateUser(t, f.usrRepo, "One", "s-001", "one@test.cd", "", []string{user.RoleStudent}, true)
	two := testutil.CreateUser(t, f.usrRepo, "Two", "s-002", "two@test.cd", "", []string{user.RoleStudent}, true)

	testutil.CreateCompletion(t, f.trackRepo, a1.ID, one.ID, posted.Add(time.Hour))
	testutil.CreateCompletion(t, f.trackRepo, a1.ID, two.ID, posted.Add(time.Hour))

	entries, err := f.svc.ComputeRanking("PHY 1104")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	wantFirst, wantSecond := one.ID, two.ID
	if wantSecond < wantFirst {
		wantFirst, wantSecond = wantSecond, wantFirst
	}
	assert.Equal(t, wantFirst, entries[0].UserID)
	assert.Equal(t, wantSecond, entries[1].UserID)

	// repeat runs stay deterministic
	again, err := f.svc.ComputeRanking("PHY 1104")
	require.NoError(t, err)
	assert.Equal(t, entries, again)
}

func Test_Service_ComputeRanking_recentCompletions(t *testing.T) {
	f := setup(t)

	teacher := testutil.CreateUser(t, f.usrRepo, "Teacher", "t-001", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	testutil.CreateUnit(t, f.unitRepo, "MAT 2101", "Calculus I", teacher.ID)
	student := testutil.CreateUser(t, f.usrRepo, "Hero", "s-001", "hero@test.cd", "", []string{user.RoleStudent}, true)

	posted := time.Date(2021, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		a := testutil.CreateAssignment(t, f.unitRepo, "MAT 2101", "Problem set", teacher.ID, posted)
		testutil.CreateCompletion(t, f.trackRepo, a.ID, student.ID, posted.Add(time.Duration(i+1)*time.Hour))
	}

	entries, err := f.svc.ComputeRanking("MAT 2101")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, 7, e.CompletedAssignments)
	require.Len(t, e.RecentCompletions, 5)
	// latest first
	for i := 1; i < len(e.RecentCompletions); i++ {
		assert.False(t, e.RecentCompletions[i].CompletedAt.After(e.RecentCompletions[i-1].CompletedAt))
	}
	assert.Equal(t, posted.Add(7*time.Hour), e.RecentCompletions[0].CompletedAt)
}

func Test_Service_ComputeRanking_invalidCompletion(t *testing.T) {
	f := setup(t)

	teacher := testutil.CreateUser(t, f.usrRepo, "Teacher", "t-001", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	testutil.CreateUnit(t, f.unitRepo, "MAT 2101", "Calculus I", teacher.ID)
	student := testutil.CreateUser(t, f.usrRepo, "Hero", "s-001", "hero@test.cd", "", []string{user.RoleStudent}, true)

	posted := time.Date(2021, 3, 1, 8, 0, 0, 0, time.UTC)
	a := testutil.CreateAssignment(t, f.unitRepo, "MAT 2101", "Problem set 1", teacher.ID, posted)
	testutil.CreateCompletion(t, f.trackRepo, a.ID, student.ID, posted.Add(-time.Minute))

	_, err := f.svc.ComputeRanking("MAT 2101")
	assert.Equal(t, rank.ErrInvalidCompletion, errors.Cause(err))
}

func Test_Service_RefreshOverallRanks(t *testing.T) {
	f := setup(t)

	teacher := testutil.CreateUser(t, f.usrRepo, "Teacher", "t-001", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	testutil.CreateUnit(t, f.unitRepo, "MAT 2101", "Calculus I", teacher.ID)
	testutil.CreateUnit(t, f.unitRepo, "CSC 3202", "Algorithms", teacher.ID)

	posted := time.Date(2021, 3, 1, 8, 0, 0, 0, time.UTC)
	a1 := testutil.CreateAssignment(t, f.unitRepo, "MAT 2101", "Problem set 1", teacher.ID, posted)
	a2 := testutil.CreateAssignment(t, f.unitRepo, "CSC 3202", "Sorting", teacher.ID, posted)

	fast := testutil.CreateUser(t, f.usrRepo, "Fast", "s-001", "fast@test.cd", "", []string{user.RoleStudent}, true)
	slow := testutil.CreateUser(t, f.usrRepo, "Slow", "s-002", "slow@test.cd", "", []string{user.RoleStudent}, true)

	testutil.CreateCompletion(t, f.trackRepo, a1.ID, fast.ID, posted.Add(time.Hour))
	testutil.CreateCompletion(t, f.trackRepo, a2.ID, slow.ID, posted.Add(4*time.Hour))

	n, err := f.svc.RefreshOverallRanks()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	refreshed, err := f.usrRepo.GetUserByID(fast.ID)
	require.NoError(t, err)
	require.NotNil(t, refreshed.OverallRank)
	assert.Equal(t, 1, *refreshed.OverallRank)

	refreshed, err = f.usrRepo.GetUserByID(slow.ID)
	require.NoError(t, err)
	require.NotNil(t, refreshed.OverallRank)
	assert.Equal(t, 2, *refreshed.OverallRank)

	// a unit board never reads the cache: the entry carries it verbatim
	entries, err := f.svc.ComputeRanking("MAT 2101")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].OverallRank)
	assert.Equal(t, 1, *entries[0].OverallRank)
	assert.Equal(t, 1, entries[0].Position)
}

func Test_BadgeForPosition(t *testing.T) {
	tests := []struct {
		position int
		want     rank.Badge
	}{
		{1, rank.BadgeGold},
		{2, rank.BadgeSilver},
		{3, rank.BadgeSilver},
		{4, rank.BadgeNone},
		{10, rank.BadgeNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rank.BadgeForPosition(tt.position))
	}
}
