package tests

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	. "github.com/Einzelgaanger/darasa/apps/api/echo"
	"github.com/Einzelgaanger/darasa/core/rank"
	"github.com/Einzelgaanger/darasa/core/user"
	"github.com/Einzelgaanger/darasa/tests"
)

func Test_rankApi_unitRankings(t *testing.T) {
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "adm-rk-teacher", "rkteacher@test.cd", "", []string{user.RoleTeacher}, true)
	testutil.CreateUnit(t, unitRepo, "STA 2202", "Statistics", teacher.ID)

	posted := time.Date(2021, 3, 1, 8, 0, 0, 0, time.UTC)
	a1 := testutil.CreateAssignment(t, unitRepo, "STA 2202", "Homework 1", teacher.ID, posted)

	fast := testutil.CreateUser(t, usrRepo, "Fast", "adm-rk-fast", "rkfast@test.cd", "", []string{user.RoleStudent}, true)
	slow := testutil.CreateUser(t, usrRepo, "Slow", "adm-rk-slow", "rkslow@test.cd", "", []string{user.RoleStudent}, true)

	token := getToken(t, fast)
	path := "/v1/units/" + url.PathEscape("STA 2202") + "/rankings"

	// no completions yet: an empty board, not an error
	req, rec := newAuthRequest(http.MethodGet, path, token)
	app.ServeHTTP(rec, req)
	tt := httpTest{wantCode: http.StatusOK, wantData: []byte(`[]`)}
	checkCodeAndData(t, tt, rec)

	testutil.CreateCompletion(t, trackRepo, a1.ID, fast.ID, posted.Add(time.Hour))
	testutil.CreateCompletion(t, trackRepo, a1.ID, slow.ID, posted.Add(3*time.Hour))

	req, rec = newAuthRequest(http.MethodGet, path, token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	var entries []rank.Entry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("json.Unmarshal(): %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("failed! entries = %+v", entries)
	}
	first, second := entries[0], entries[1]
	if first.UserID != fast.ID || first.Position != 1 || first.Badge != rank.BadgeGold {
		t.Errorf("failed! first = %+v", first)
	}
	if second.UserID != slow.ID || second.Position != 2 || second.Badge != rank.BadgeSilver {
		t.Errorf("failed! second = %+v", second)
	}
	if first.AverageCompletionTime != time.Hour {
		t.Errorf("failed! average = %v; want %v", first.AverageCompletionTime, time.Hour)
	}
	if len(first.RecentCompletions) != 1 || first.RecentCompletions[0].Title != "Homework 1" {
		t.Errorf("failed! recent = %+v", first.RecentCompletions)
	}
}

func Test_rankApi_refresh(t *testing.T) {
	admin := testutil.CreateUser(t, usrRepo, "Admin", "adm-rr-admin", "rradmin@test.cd", "", []string{user.RoleAdmin}, true)
	student := testutil.CreateUser(t, usrRepo, "Hero", "adm-rr-student", "rrstudent@test.cd", "", []string{user.RoleStudent}, true)

	tests := []httpTest{
		{
			name: "Auth required", wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Admin required", token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "refreshed", token: getToken(t, admin), wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/rankings/refresh", tt.token)
			app.ServeHTTP(rec, req)

			if tt.wantData == nil {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
				}
				var resp RefreshRanksResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("json.Unmarshal(): %v", err)
				}
				if resp.Ranked < 1 { // completions from earlier tests rank at least one user
					t.Errorf("failed! ranked = %v", resp.Ranked)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
