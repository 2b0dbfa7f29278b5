package dummydb

import (
	"github.com/Einzelgaanger/darasa/core/track"
)

type trackRepository struct {
	db    *trackTable
	items *unitTable
}

var _ track.Repository = (*trackRepository)(nil) // interface compliance check

func NewTrackRepository(db *DB) *trackRepository {
	return &trackRepository{db: db.track, items: db.unit}
}

// itemUnitCode resolves which unit an item belongs to, or "" if unknown.
func (repo *trackRepository) itemUnitCode(itemID string, kind track.ItemKind) string {
	repo.items.RLock()
	defer repo.items.RUnlock()

	switch kind {
	case track.KindNote:
		if n, ok := repo.items.notes[itemID]; ok {
			return n.UnitCode
		}
	case track.KindPaper:
		if p, ok := repo.items.papers[itemID]; ok {
			return p.UnitCode
		}
	}
	return ""
}

// Views

func (repo *trackRepository) CreateViewRecord(rec track.ViewRecord) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := recordKey(rec.ItemID, rec.UserID)
	if _, ok := repo.db.views[key]; ok {
		return nil // duplicate view, keep the first
	}
	repo.db.views[key] = &rec
	return nil
}

func (repo *trackRepository) GetViewRecord(itemID, userID string, kind track.ItemKind) (track.ViewRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rec, ok := repo.db.views[recordKey(itemID, userID)]; ok && rec.Kind == kind {
		return *rec, nil
	}
	return track.ViewRecord{}, track.ErrRecordNotFound
}

func (repo *trackRepository) ViewedItemIDs(userID, unitCode string, kind track.ItemKind) ([]string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := make([]string, 0)
	for _, rec := range repo.db.views {
		if rec.UserID == userID && rec.Kind == kind && repo.itemUnitCode(rec.ItemID, kind) == unitCode {
			ids = append(ids, rec.ItemID)
		}
	}
	return ids, nil
}

func (repo *trackRepository) UnviewedCount(userID, unitCode string, kind track.ItemKind) (int, error) {
	itemIDs := repo.unitItemIDs(unitCode, kind)

	repo.db.RLock()
	defer repo.db.RUnlock()

	count := 0
	for _, id := range itemIDs {
		if _, ok := repo.db.views[recordKey(id, userID)]; !ok {
			count++
		}
	}
	return count, nil
}

func (repo *trackRepository) unitItemIDs(unitCode string, kind track.ItemKind) []string {
	repo.items.RLock()
	defer repo.items.RUnlock()

	ids := make([]string, 0)
	switch kind {
	case track.KindNote:
		for id, n := range repo.items.notes {
			if n.UnitCode == unitCode {
				ids = append(ids, id)
			}
		}
	case track.KindPaper:
		for id, p := range repo.items.papers {
			if p.UnitCode == unitCode {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// Completions

func (repo *trackRepository) CreateCompletionRecord(rec track.CompletionRecord) (track.CompletionRecord, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := recordKey(rec.AssignmentID, rec.UserID)
	if existing, ok := repo.db.completions[key]; ok {
		return *existing, nil // first completion wins
	}
	repo.db.completions[key] = &rec
	return rec, nil
}

func (repo *trackRepository) GetCompletionRecord(assignmentID, userID string) (track.CompletionRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rec, ok := repo.db.completions[recordKey(assignmentID, userID)]; ok {
		return *rec, nil
	}
	return track.CompletionRecord{}, track.ErrRecordNotFound
}

func (repo *trackRepository) CompletedAssignmentIDs(userID, unitCode string) ([]string, error) {
	assignmentIDs := repo.unitAssignmentIDSet(unitCode)

	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := make([]string, 0)
	for _, rec := range repo.db.completions {
		if rec.UserID == userID && assignmentIDs[rec.AssignmentID] {
			ids = append(ids, rec.AssignmentID)
		}
	}
	return ids, nil
}

func (repo *trackRepository) PendingCount(userID, unitCode string) (int, error) {
	assignmentIDs := repo.unitAssignmentIDSet(unitCode)

	repo.db.RLock()
	defer repo.db.RUnlock()

	count := 0
	for id := range assignmentIDs {
		if _, ok := repo.db.completions[recordKey(id, userID)]; !ok {
			count++
		}
	}
	return count, nil
}

func (repo *trackRepository) unitAssignmentIDSet(unitCode string) map[string]bool {
	repo.items.RLock()
	defer repo.items.RUnlock()

	ids := make(map[string]bool)
	for id, a := range repo.items.assignments {
		if a.UnitCode == unitCode {
			ids[id] = true
		}
	}
	return ids
}

func (repo *trackRepository) QueryUnitCompletions(unitCode string) ([]track.CompletionRecord, error) {
	assignmentIDs := repo.unitAssignmentIDSet(unitCode)

	repo.db.RLock()
	defer repo.db.RUnlock()

	records := make([]track.CompletionRecord, 0)
	for _, rec := range repo.db.completions {
		if assignmentIDs[rec.AssignmentID] {
			records = append(records, *rec)
		}
	}
	return records, nil
}

func (repo *trackRepository) QueryAllCompletions() ([]track.CompletionRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	records := make([]track.CompletionRecord, 0, len(repo.db.completions))
	for _, rec := range repo.db.completions {
		records = append(records, *rec)
	}
	return records, nil
}
