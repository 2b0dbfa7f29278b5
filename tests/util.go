package testutil

import (
	"testing"
	"time"

	"github.com/Einzelgaanger/darasa/core/track"
	"github.com/Einzelgaanger/darasa/core/unit"
	"github.com/Einzelgaanger/darasa/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, admNo, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:        name,
		AdmissionNo: admNo,
		Email:       email,
		Roles:       roles,
		IsActive:    &isActive,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateUnit(t *testing.T, repo unit.Repository, code, name, createdBy string) unit.Unit {
	t.Helper()

	u, err := repo.CreateUnit(unit.Unit{
		Code:      code,
		Name:      name,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateUnit() failed: %v", err)
	}
	return u
}

func CreateNote(t *testing.T, repo unit.Repository, unitCode, title, createdBy string, createdAt ...time.Time) unit.Note {
	t.Helper()

	n, err := repo.CreateNote(unit.Note{
		UnitCode:  unitCode,
		Title:     title,
		CreatedBy: createdBy,
		CreatedAt: tstamp(createdAt),
	})
	if err != nil {
		t.Fatalf("CreateNote() failed: %v", err)
	}
	return n
}

func CreatePastPaper(t *testing.T, repo unit.Repository, unitCode, title, createdBy string, createdAt ...time.Time) unit.PastPaper {
	t.Helper()

	p, err := repo.CreatePastPaper(unit.PastPaper{
		UnitCode:  unitCode,
		Title:     title,
		CreatedBy: createdBy,
		CreatedAt: tstamp(createdAt),
	})
	if err != nil {
		t.Fatalf("CreatePastPaper() failed: %v", err)
	}
	return p
}

func CreateAssignment(t *testing.T, repo unit.Repository, unitCode, title, createdBy string, createdAt ...time.Time) unit.Assignment {
	t.Helper()

	a, err := repo.CreateAssignment(unit.Assignment{
		UnitCode:  unitCode,
		Title:     title,
		CreatedBy: createdBy,
		CreatedAt: tstamp(createdAt),
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return a
}

func CreateCompletion(t *testing.T, repo track.Repository, assignmentID, userID string, completedAt time.Time) track.CompletionRecord {
	t.Helper()

	rec, err := repo.CreateCompletionRecord(track.CompletionRecord{
		AssignmentID: assignmentID,
		UserID:       userID,
		CompletedAt:  completedAt.UTC(),
	})
	if err != nil {
		t.Fatalf("CreateCompletion() failed: %v", err)
	}
	return rec
}

func tstamp(createdAt []time.Time) time.Time {
	if len(createdAt) > 0 {
		return createdAt[0].UTC()
	}
	return time.Now().UTC()
}
