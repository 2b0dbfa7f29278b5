package unit_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Einzelgaanger/darasa/core"
	"github.com/Einzelgaanger/darasa/core/track"
	"github.com/Einzelgaanger/darasa/core/unit"
	"github.com/Einzelgaanger/darasa/core/user"
	"github.com/Einzelgaanger/darasa/storage/database/dummy"
	"github.com/Einzelgaanger/darasa/tests"
)

type unitFixture struct {
	svc      *unit.Service
	trackSvc *track.Service
	usrRepo  user.Repository
	unitRepo unit.Repository
}

func setup(t *testing.T) *unitFixture {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)

	usrRepo := dummydb.NewUserRepository(db)
	unitRepo := dummydb.NewUnitRepository(db)
	trackSvc := track.NewService(dummydb.NewTrackRepository(db), unitRepo)
	return &unitFixture{
		svc:      unit.NewService(unitRepo, trackSvc, nil),
		trackSvc: trackSvc,
		usrRepo:  usrRepo,
		unitRepo: unitRepo,
	}
}

func Test_Service_Create(t *testing.T) {
	f := setup(t)

	teacher := testutil.CreateUser(t, f.usrRepo, "Teacher", "t-001", "teacher@test.cd", "", []string{user.RoleTeacher}, true)

	u, err := f.svc.Create(unit.NewUnit{Code: "MAT 2101", Name: "Calculus I"}, teacher.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, teacher.ID, u.CreatedBy)

	// duplicate code is a field error
	_, err = f.svc.Create(unit.NewUnit{Code: "MAT 2101", Name: "Calculus again"}, teacher.ID)
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "code", vErr.Fields[0].Field)

	got, err := f.svc.GetByCode(" MAT 2101 ") // input is cleaned
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func Test_Service_QueryNotes_annotated(t *testing.T) {
	f := setup(t)

	teacher := testutil.CreateUser(t, f.usrRepo, "Teacher", "t-001", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	student := testutil.CreateUser(t, f.usrRepo, "Hero", "s-001", "hero@test.cd", "", []string{user.RoleStudent}, true)
	testutil.CreateUnit(t, f.unitRepo, "MAT 2101", "Calculus I", teacher.ID)

	n1 := testutil.CreateNote(t, f.unitRepo, "MAT 2101", "Week 1", teacher.ID)
	n2 := testutil.CreateNote(t, f.unitRepo, "MAT 2101", "Week 2", teacher.ID)

	require.NoError(t, f.trackSvc.RecordView(student.ID, n1.ID, track.KindNote))

	notes, err := f.svc.QueryNotes("MAT 2101", student.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)

	flags := make(map[string]bool, len(notes))
	for _, n := range notes {
		flags[n.ID] = n.Viewed
	}
	assert.True(t, flags[n1.ID])
	assert.False(t, flags[n2.ID])

	// another user's views do not leak
	notes, err = f.svc.QueryNotes("MAT 2101", teacher.ID)
	require.NoError(t, err)
	for _, n := range notes {
		assert.False(t, n.Viewed)
	}
}

func Test_Service_QueryAssignments_annotated(t *testing.T) {
	f := setup(t)

	teacher := testutil.CreateUser(t, f.usrRepo, "Teacher", "t-001", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	student := testutil.CreateUser(t, f.usrRepo, "Hero", "s-001", "hero@test.cd", "", []string{user.RoleStudent}, true)
	testutil.CreateUnit(t, f.unitRepo, "MAT 2101", "Calculus I", teacher.ID)

	a1 := testutil.CreateAssignment(t, f.unitRepo, "MAT 2101", "Problem set 1", teacher.ID)
	a2 := testutil.CreateAssignment(t, f.unitRepo, "MAT 2101", "Problem set 2", teacher.ID)

	_, err := f.trackSvc.RecordCompletion(student.ID, a1.ID)
	require.NoError(t, err)

	assignments, err := f.svc.QueryAssignments("MAT 2101", student.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 2)

	flags := make(map[string]bool, len(assignments))
	for _, a := range assignments {
		flags[a.ID] = a.Completed
	}
	assert.True(t, flags[a1.ID])
	assert.False(t, flags[a2.ID])
}

func Test_Service_DeleteNote_ownership(t *testing.T) {
	f := setup(t)

	teacher := testutil.CreateUser(t, f.usrRepo, "Teacher", "t-001", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	student := testutil.CreateUser(t, f.usrRepo, "Hero", "s-001", "hero@test.cd", "", []string{user.RoleStudent}, true)
	testutil.CreateUnit(t, f.unitRepo, "MAT 2101", "Calculus I", teacher.ID)
	n := testutil.CreateNote(t, f.unitRepo, "MAT 2101", "Week 1", teacher.ID)

	ctx := context.Background()

	err := f.svc.DeleteNote(ctx, n.ID, student.ID)
	assert.Equal(t, unit.ErrNotOwner, errors.Cause(err))

	require.NoError(t, f.svc.DeleteNote(ctx, n.ID, teacher.ID))

	err = f.svc.DeleteNote(ctx, n.ID, teacher.ID)
	assert.Equal(t, unit.ErrItemNotFound, errors.Cause(err))
}

func Test_NewUnit_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      unit.NewUnit
		wantErr bool
	}{
		{name: "valid", in: unit.NewUnit{Code: "MAT 2101", Name: "Calculus I"}},
		{name: "valid (cleaned)", in: unit.NewUnit{Code: "  MAT 2101 ", Name: " Calculus I "}},
		{name: "missing code", in: unit.NewUnit{Name: "Calculus I"}, wantErr: true},
		{name: "bad code", in: unit.NewUnit{Code: "mat-2101", Name: "Calculus I"}, wantErr: true},
		{name: "missing name", in: unit.NewUnit{Code: "MAT 2101"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate(core.Validate)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
