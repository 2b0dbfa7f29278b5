package tests

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	. "github.com/Einzelgaanger/darasa/apps/api/echo"
	"github.com/Einzelgaanger/darasa/core/track"
	"github.com/Einzelgaanger/darasa/core/unit"
	"github.com/Einzelgaanger/darasa/core/user"
	"github.com/Einzelgaanger/darasa/tests"
)

func Test_trackApi_completeAssignment(t *testing.T) {
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "adm-tc-teacher", "tcteacher@test.cd", "", []string{user.RoleTeacher}, true)
	student := testutil.CreateUser(t, usrRepo, "Hero", "adm-tc-student", "tcstudent@test.cd", "", []string{user.RoleStudent}, true)
	testutil.CreateUnit(t, unitRepo, "ECO 1101", "Microeconomics", teacher.ID)
	a := testutil.CreateAssignment(t, unitRepo, "ECO 1101", "Essay 1", teacher.ID)

	token := getToken(t, student)

	// unknown assignment is a field error
	req, rec := newAuthRequest(http.MethodPost, "/v1/assignments/nope/complete", token)
	app.ServeHTTP(rec, req)
	tt := httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, map[string]string{"assignment_id": "no such assignment"}),
	}
	checkCodeAndData(t, tt, rec)

	// completion
	req, rec = newAuthRequest(http.MethodPost, "/v1/assignments/"+a.ID+"/complete", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	var first track.CompletionRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &first); err != nil {
		t.Fatalf("json.Unmarshal(): %v", err)
	}
	if first.AssignmentID != a.ID || first.UserID != student.ID || first.CompletedAt.IsZero() {
		t.Fatalf("failed! record = %+v", first)
	}

	// first completion wins
	req, rec = newAuthRequest(http.MethodPost, "/v1/assignments/"+a.ID+"/complete", token)
	app.ServeHTTP(rec, req)
	var again track.CompletionRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &again); err != nil {
		t.Fatalf("json.Unmarshal(): %v", err)
	}
	if !again.CompletedAt.Equal(first.CompletedAt) {
		t.Errorf("failed! completed_at = %v; want the original %v", again.CompletedAt, first.CompletedAt)
	}
}

func Test_trackApi_unitSummary(t *testing.T) {
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "adm-ts-teacher", "tsteacher@test.cd", "", []string{user.RoleTeacher}, true)
	student := testutil.CreateUser(t, usrRepo, "Hero", "adm-ts-student", "tsstudent@test.cd", "", []string{user.RoleStudent}, true)
	testutil.CreateUnit(t, unitRepo, "HIS 1301", "World History", teacher.ID)

	n1 := testutil.CreateNote(t, unitRepo, "HIS 1301", "Week 1", teacher.ID)
	testutil.CreateNote(t, unitRepo, "HIS 1301", "Week 2", teacher.ID)
	testutil.CreatePastPaper(t, unitRepo, "HIS 1301", "2020 Final", teacher.ID)
	a1 := testutil.CreateAssignment(t, unitRepo, "HIS 1301", "Essay 1", teacher.ID)
	testutil.CreateAssignment(t, unitRepo, "HIS 1301", "Essay 2", teacher.ID)

	token := getToken(t, student)

	// note viewed, one assignment completed
	req, rec := newAuthRequest(http.MethodPost, "/v1/notes/"+n1.ID+"/view", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("view failed! code = %v", rec.Code)
	}
	req, rec = newAuthRequest(http.MethodPost, "/v1/assignments/"+a1.ID+"/complete", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete failed! code = %v", rec.Code)
	}

	path := "/v1/units/" + url.PathEscape("HIS 1301") + "/summary"
	tests := []httpTest{
		{
			name: "Auth required", path: path, wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "unknown unit", path: "/v1/units/" + url.PathEscape("NOPE 0000") + "/summary", token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: unit.ErrNotFound.Error()}),
		},
		{
			name: "summary", path: path, token: token, wantCode: http.StatusOK,
			wantData: marchallObj(t, UnitSummary{
				UnitCode:           "HIS 1301",
				UnviewedNotes:      1,
				UnviewedPastPapers: 1,
				PendingAssignments: 1,
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
