package dummydb

import (
	"sync"

	"github.com/Einzelgaanger/darasa/core/track"
	"github.com/Einzelgaanger/darasa/core/unit"
	"github.com/Einzelgaanger/darasa/core/user"
)

type (
	DB struct {
		user  *userTable
		unit  *unitTable
		track *trackTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	unitTable struct {
		sync.RWMutex
		units       map[string]*unit.Unit // keyed by code
		notes       map[string]*unit.Note
		papers      map[string]*unit.PastPaper
		assignments map[string]*unit.Assignment
	}

	trackTable struct {
		sync.RWMutex
		views       map[string]*track.ViewRecord       // keyed by itemID|userID
		completions map[string]*track.CompletionRecord // keyed by assignmentID|userID
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User)},
		unit: &unitTable{
			units:       make(map[string]*unit.Unit),
			notes:       make(map[string]*unit.Note),
			papers:      make(map[string]*unit.PastPaper),
			assignments: make(map[string]*unit.Assignment),
		},
		track: &trackTable{
			views:       make(map[string]*track.ViewRecord),
			completions: make(map[string]*track.CompletionRecord),
		},
	}
	return db, nil
}

func recordKey(a, b string) string {
	return a + "|" + b
}
