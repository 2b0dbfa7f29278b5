package unit

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/Einzelgaanger/darasa/core"
)

var (
	// errors
	ErrNotFound     = errors.New("unit not found")
	ErrItemNotFound = errors.New("content item not found")
	ErrCodeExists   = errors.New("a unit with this code already exists")
	ErrNotOwner     = errors.New("only the creator may delete this item")
)

type (
	Repository interface {
		CreateUnit(u Unit) (Unit, error)
		QueryAllUnits() ([]Unit, error)
		GetUnitByCode(code string) (Unit, error)

		CreateNote(n Note) (Note, error)
		QueryNotes(unitCode string) ([]Note, error)
		GetNoteByID(id string) (Note, error)
		DeleteNoteByID(id string) error

		CreatePastPaper(p PastPaper) (PastPaper, error)
		QueryPastPapers(unitCode string) ([]PastPaper, error)
		GetPastPaperByID(id string) (PastPaper, error)
		DeletePastPaperByID(id string) error

		CreateAssignment(a Assignment) (Assignment, error)
		QueryAssignments(unitCode string) ([]Assignment, error)
		QueryAllAssignments() ([]Assignment, error)
		GetAssignmentByID(id string) (Assignment, error)
		DeleteAssignmentByID(id string) error
	}

	// TrackReader answers batched per-user state questions so listings can be
	// annotated in a single pass over items plus one record fetch.
	TrackReader interface {
		ViewedNoteIDs(userID, unitCode string) (map[string]bool, error)
		ViewedPaperIDs(userID, unitCode string) (map[string]bool, error)
		CompletedAssignmentIDs(userID, unitCode string) (map[string]bool, error)
	}

	Service struct {
		repo    Repository
		tracker TrackReader
		files   core.FileStorage
	}
)

func NewService(repo Repository, tracker TrackReader, files core.FileStorage) *Service {
	return &Service{repo: repo, tracker: tracker, files: files}
}

func (svc *Service) Create(nu NewUnit, createdBy string) (Unit, error) {
	if _, err := svc.repo.GetUnitByCode(nu.Code); err == nil {
		return Unit{}, core.NewValidationError(ErrCodeExists, core.FieldError{Field: "code", Error: ErrCodeExists.Error()})
	} else if errors.Cause(err) != ErrNotFound {
		return Unit{}, err
	}
	u := Unit{
		Code:      nu.Code,
		Name:      nu.Name,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateUnit(u)
}

func (svc *Service) QueryAll() ([]Unit, error) {
	return svc.repo.QueryAllUnits()
}

func (svc *Service) GetByCode(code string) (Unit, error) {
	return svc.repo.GetUnitByCode(core.CleanString(code))
}

// Notes

func (svc *Service) CreateNote(unitCode string, nn NewNote, createdBy string) (Note, error) {
	if _, err := svc.repo.GetUnitByCode(unitCode); err != nil {
		return Note{}, err
	}
	n := Note{
		UnitCode:    unitCode,
		Title:       nn.Title,
		Description: nn.Description,
		FileURL:     nn.FileURL,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateNote(n)
}

// QueryNotes lists a unit's notes annotated with the viewing user's seen state.
// The user's view records for the unit are fetched once; annotation is a map
// lookup per item.
func (svc *Service) QueryNotes(unitCode, userID string) ([]AnnotatedNote, error) {
	if _, err := svc.repo.GetUnitByCode(unitCode); err != nil {
		return nil, err
	}
	notes, err := svc.repo.QueryNotes(unitCode)
	if err != nil {
		return nil, err
	}
	viewed, err := svc.tracker.ViewedNoteIDs(userID, unitCode)
	if err != nil {
		return nil, errors.Wrap(err, "fetching viewed note ids")
	}
	annotated := make([]AnnotatedNote, 0, len(notes))
	for _, n := range notes {
		annotated = append(annotated, AnnotatedNote{Note: n, Viewed: viewed[n.ID]})
	}
	return annotated, nil
}

func (svc *Service) DeleteNote(ctx context.Context, id, userID string) error {
	n, err := svc.repo.GetNoteByID(id)
	if err != nil {
		return err
	}
	if n.CreatedBy != userID {
		return ErrNotOwner
	}
	if err := svc.repo.DeleteNoteByID(id); err != nil {
		return err
	}
	return svc.deleteFile(ctx, n.FileURL)
}

// Past papers

func (svc *Service) CreatePastPaper(unitCode string, np NewPastPaper, createdBy string) (PastPaper, error) {
	if _, err := svc.repo.GetUnitByCode(unitCode); err != nil {
		return PastPaper{}, err
	}
	p := PastPaper{
		UnitCode:  unitCode,
		Title:     np.Title,
		Year:      np.Year,
		FileURL:   np.FileURL,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreatePastPaper(p)
}

func (svc *Service) QueryPastPapers(unitCode, userID string) ([]AnnotatedPastPaper, error) {
	if _, err := svc.repo.GetUnitByCode(unitCode); err != nil {
		return nil, err
	}
	papers, err := svc.repo.QueryPastPapers(unitCode)
	if err != nil {
		return nil, err
	}
	viewed, err := svc.tracker.ViewedPaperIDs(userID, unitCode)
	if err != nil {
		return nil, errors.Wrap(err, "fetching viewed paper ids")
	}
	annotated := make([]AnnotatedPastPaper, 0, len(papers))
	for _, p := range papers {
		annotated = append(annotated, AnnotatedPastPaper{PastPaper: p, Viewed: viewed[p.ID]})
	}
	return annotated, nil
}

func (svc *Service) DeletePastPaper(ctx context.Context, id, userID string) error {
	p, err := svc.repo.GetPastPaperByID(id)
	if err != nil {
		return err
	}
	if p.CreatedBy != userID {
		return ErrNotOwner
	}
	if err := svc.repo.DeletePastPaperByID(id); err != nil {
		return err
	}
	return svc.deleteFile(ctx, p.FileURL)
}

// Assignments

func (svc *Service) CreateAssignment(unitCode string, na NewAssignment, createdBy string) (Assignment, error) {
	if _, err := svc.repo.GetUnitByCode(unitCode); err != nil {
		return Assignment{}, err
	}
	a := Assignment{
		UnitCode:    unitCode,
		Title:       na.Title,
		Description: na.Description,
		FileURL:     na.FileURL,
		Deadline:    na.Deadline,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateAssignment(a)
}

func (svc *Service) QueryAssignments(unitCode, userID string) ([]AnnotatedAssignment, error) {
	if _, err := svc.repo.GetUnitByCode(unitCode); err != nil {
		return nil, err
	}
	assignments, err := svc.repo.QueryAssignments(unitCode)
	if err != nil {
		return nil, err
	}
	completed, err := svc.tracker.CompletedAssignmentIDs(userID, unitCode)
	if err != nil {
		return nil, errors.Wrap(err, "fetching completed assignment ids")
	}
	annotated := make([]AnnotatedAssignment, 0, len(assignments))
	for _, a := range assignments {
		annotated = append(annotated, AnnotatedAssignment{Assignment: a, Completed: completed[a.ID]})
	}
	return annotated, nil
}

func (svc *Service) DeleteAssignment(ctx context.Context, id, userID string) error {
	a, err := svc.repo.GetAssignmentByID(id)
	if err != nil {
		return err
	}
	if a.CreatedBy != userID {
		return ErrNotOwner
	}
	if err := svc.repo.DeleteAssignmentByID(id); err != nil {
		return err
	}
	return svc.deleteFile(ctx, a.FileURL)
}

func (svc *Service) deleteFile(ctx context.Context, url string) error {
	if svc.files == nil || url == "" {
		return nil
	}
	return errors.Wrap(svc.files.Delete(ctx, url), "deleting stored file")
}
