package track

import (
	"time"

	"github.com/pkg/errors"

	"github.com/Einzelgaanger/darasa/core"
	"github.com/Einzelgaanger/darasa/core/unit"
)

var (
	// errors
	ErrRecordNotFound = errors.New("record not found")
	ErrUnknownKind    = errors.New("unknown item kind")
)

type (
	Repository interface {
		// CreateViewRecord inserts the record if absent. A duplicate
		// (item, user) insert is not an error; the uniqueness constraint
		// lives in the store so concurrent duplicates cannot race past an
		// existence check.
		CreateViewRecord(rec ViewRecord) error
		GetViewRecord(itemID, userID string, kind ItemKind) (ViewRecord, error)
		ViewedItemIDs(userID, unitCode string, kind ItemKind) ([]string, error)
		UnviewedCount(userID, unitCode string, kind ItemKind) (int, error)

		// CreateCompletionRecord inserts the record if absent and returns the
		// stored row; when a record already exists for (assignment, user) the
		// existing row is returned untouched.
		CreateCompletionRecord(rec CompletionRecord) (CompletionRecord, error)
		GetCompletionRecord(assignmentID, userID string) (CompletionRecord, error)
		CompletedAssignmentIDs(userID, unitCode string) ([]string, error)
		PendingCount(userID, unitCode string) (int, error)
		QueryUnitCompletions(unitCode string) ([]CompletionRecord, error)
		QueryAllCompletions() ([]CompletionRecord, error)
	}

	Service struct {
		repo  Repository
		units unit.Repository
	}
)

func NewService(repo Repository, units unit.Repository) *Service {
	return &Service{repo: repo, units: units}
}

// RecordView marks the item as seen by the user. Calling it again for the
// same (user, item) succeeds without effect.
func (svc *Service) RecordView(userID, itemID string, kind ItemKind) error {
	if !kind.Valid() {
		return core.NewValidationError(ErrUnknownKind, core.FieldError{Field: "kind", Error: ErrUnknownKind.Error()})
	}
	if err := svc.checkItemExists(itemID, kind); err != nil {
		return err
	}
	rec := ViewRecord{
		ItemID:   itemID,
		UserID:   userID,
		Kind:     kind,
		ViewedAt: time.Now().UTC(),
	}
	return errors.Wrap(svc.repo.CreateViewRecord(rec), "creating view record")
}

func (svc *Service) checkItemExists(itemID string, kind ItemKind) error {
	var err error
	switch kind {
	case KindNote:
		_, err = svc.units.GetNoteByID(itemID)
	case KindPaper:
		_, err = svc.units.GetPastPaperByID(itemID)
	}
	return err
}

func (svc *Service) IsViewed(userID, itemID string, kind ItemKind) (bool, error) {
	if _, err := svc.repo.GetViewRecord(itemID, userID, kind); err != nil {
		if errors.Cause(err) == ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// UnviewedCount reports how many of the unit's items the user has no view
// record for. Items created after the user's last visit count as unviewed.
func (svc *Service) UnviewedCount(userID, unitCode string, kind ItemKind) (int, error) {
	if !kind.Valid() {
		return 0, core.NewValidationError(ErrUnknownKind, core.FieldError{Field: "kind", Error: ErrUnknownKind.Error()})
	}
	if _, err := svc.units.GetUnitByCode(unitCode); err != nil {
		return 0, err
	}
	return svc.repo.UnviewedCount(userID, unitCode, kind)
}

// RecordCompletion marks the assignment as completed by the user at the
// current time. A repeat call returns the existing record: completion time is
// "first completion", not "last action".
func (svc *Service) RecordCompletion(userID, assignmentID string) (CompletionRecord, error) {
	if _, err := svc.units.GetAssignmentByID(assignmentID); err != nil {
		if errors.Cause(err) == unit.ErrItemNotFound {
			return CompletionRecord{}, core.NewValidationError(err, core.FieldError{
				Field: "assignment_id", Error: "no such assignment",
			})
		}
		return CompletionRecord{}, err
	}
	rec := CompletionRecord{
		AssignmentID: assignmentID,
		UserID:       userID,
		CompletedAt:  time.Now().UTC(),
	}
	stored, err := svc.repo.CreateCompletionRecord(rec)
	return stored, errors.Wrap(err, "creating completion record")
}

func (svc *Service) PendingCount(userID, unitCode string) (int, error) {
	if _, err := svc.units.GetUnitByCode(unitCode); err != nil {
		return 0, err
	}
	return svc.repo.PendingCount(userID, unitCode)
}

// Batched per-user state fetches used to annotate unit listings.

func (svc *Service) ViewedNoteIDs(userID, unitCode string) (map[string]bool, error) {
	return svc.viewedIDSet(userID, unitCode, KindNote)
}

func (svc *Service) ViewedPaperIDs(userID, unitCode string) (map[string]bool, error) {
	return svc.viewedIDSet(userID, unitCode, KindPaper)
}

func (svc *Service) viewedIDSet(userID, unitCode string, kind ItemKind) (map[string]bool, error) {
	ids, err := svc.repo.ViewedItemIDs(userID, unitCode, kind)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (svc *Service) CompletedAssignmentIDs(userID, unitCode string) (map[string]bool, error) {
	ids, err := svc.repo.CompletedAssignmentIDs(userID, unitCode)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
