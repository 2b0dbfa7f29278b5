package dummydb

import (
	"sort"

	"github.com/google/uuid"

	"github.com/Einzelgaanger/darasa/core/unit"
)

type unitRepository struct {
	db *unitTable
}

var _ unit.Repository = (*unitRepository)(nil) // interface compliance check

func NewUnitRepository(db *DB) *unitRepository {
	return &unitRepository{db: db.unit}
}

func (repo *unitRepository) CreateUnit(u unit.Unit) (unit.Unit, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.units[u.Code]; ok {
		return unit.Unit{}, unit.ErrCodeExists
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	repo.db.units[u.Code] = &u
	return u, nil
}

func (repo *unitRepository) QueryAllUnits() ([]unit.Unit, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	units := make([]unit.Unit, 0, len(repo.db.units))
	for _, u := range repo.db.units {
		units = append(units, *u)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Code < units[j].Code })
	return units, nil
}

func (repo *unitRepository) GetUnitByCode(code string) (unit.Unit, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if u, ok := repo.db.units[code]; ok {
		return *u, nil
	}
	return unit.Unit{}, unit.ErrNotFound
}

// Notes

func (repo *unitRepository) CreateNote(n unit.Note) (unit.Note, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	repo.db.notes[n.ID] = &n
	return n, nil
}

func (repo *unitRepository) QueryNotes(unitCode string) ([]unit.Note, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	notes := make([]unit.Note, 0)
	for _, n := range repo.db.notes {
		if n.UnitCode == unitCode {
			notes = append(notes, *n)
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].CreatedAt.After(notes[j].CreatedAt) })
	return notes, nil
}

func (repo *unitRepository) GetNoteByID(id string) (unit.Note, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if n, ok := repo.db.notes[id]; ok {
		return *n, nil
	}
	return unit.Note{}, unit.ErrItemNotFound
}

func (repo *unitRepository) DeleteNoteByID(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.notes, id)
	return nil
}

// Past papers

func (repo *unitRepository) CreatePastPaper(p unit.PastPaper) (unit.PastPaper, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	repo.db.papers[p.ID] = &p
	return p, nil
}

func (repo *unitRepository) QueryPastPapers(unitCode string) ([]unit.PastPaper, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	papers := make([]unit.PastPaper, 0)
	for _, p := range repo.db.papers {
		if p.UnitCode == unitCode {
			papers = append(papers, *p)
		}
	}
	sort.Slice(papers, func(i, j int) bool { return papers[i].CreatedAt.After(papers[j].CreatedAt) })
	return papers, nil
}

func (repo *unitRepository) GetPastPaperByID(id string) (unit.PastPaper, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.papers[id]; ok {
		return *p, nil
	}
	return unit.PastPaper{}, unit.ErrItemNotFound
}

func (repo *unitRepository) DeletePastPaperByID(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.papers, id)
	return nil
}

// Assignments

func (repo *unitRepository) CreateAssignment(a unit.Assignment) (unit.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	repo.db.assignments[a.ID] = &a
	return a, nil
}

func (repo *unitRepository) QueryAssignments(unitCode string) ([]unit.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	assignments := make([]unit.Assignment, 0)
	for _, a := range repo.db.assignments {
		if a.UnitCode == unitCode {
			assignments = append(assignments, *a)
		}
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].CreatedAt.After(assignments[j].CreatedAt) })
	return assignments, nil
}

func (repo *unitRepository) QueryAllAssignments() ([]unit.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	assignments := make([]unit.Assignment, 0, len(repo.db.assignments))
	for _, a := range repo.db.assignments {
		assignments = append(assignments, *a)
	}
	return assignments, nil
}

func (repo *unitRepository) GetAssignmentByID(id string) (unit.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if a, ok := repo.db.assignments[id]; ok {
		return *a, nil
	}
	return unit.Assignment{}, unit.ErrItemNotFound
}

func (repo *unitRepository) DeleteAssignmentByID(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.assignments, id)
	return nil
}
