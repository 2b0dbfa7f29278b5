package gormrepos

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Einzelgaanger/darasa/core/unit"
)

type unitRepository struct {
	db *gorm.DB
}

var _ unit.Repository = (*unitRepository)(nil) // interface compliance check

func NewUnitRepository(db *gorm.DB) *unitRepository {
	return &unitRepository{db: db}
}

func (repo *unitRepository) CreateUnit(u unit.Unit) (unit.Unit, error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	row := rowFromUnit(u)
	if err := repo.db.Create(&row).Error; err != nil {
		return unit.Unit{}, errors.Wrap(err, "creating unit")
	}
	return row.toUnit(), nil
}

func (repo *unitRepository) QueryAllUnits() ([]unit.Unit, error) {
	var rows []unitRow
	if err := repo.db.Order("code").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying units")
	}
	units := make([]unit.Unit, 0, len(rows))
	for _, row := range rows {
		units = append(units, row.toUnit())
	}
	return units, nil
}

func (repo *unitRepository) GetUnitByCode(code string) (unit.Unit, error) {
	var row unitRow
	if err := repo.db.First(&row, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return unit.Unit{}, unit.ErrNotFound
		}
		return unit.Unit{}, errors.Wrap(err, "getting unit by code")
	}
	return row.toUnit(), nil
}

// Notes

func (repo *unitRepository) CreateNote(n unit.Note) (unit.Note, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	row := rowFromNote(n)
	if err := repo.db.Create(&row).Error; err != nil {
		return unit.Note{}, errors.Wrap(err, "creating note")
	}
	return row.toNote(), nil
}

func (repo *unitRepository) QueryNotes(unitCode string) ([]unit.Note, error) {
	var rows []noteRow
	if err := repo.db.Where("unit_code = ?", unitCode).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying notes")
	}
	notes := make([]unit.Note, 0, len(rows))
	for _, row := range rows {
		notes = append(notes, row.toNote())
	}
	return notes, nil
}

func (repo *unitRepository) GetNoteByID(id string) (unit.Note, error) {
	var row noteRow
	if err := repo.db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return unit.Note{}, unit.ErrItemNotFound
		}
		return unit.Note{}, errors.Wrap(err, "getting note by id")
	}
	return row.toNote(), nil
}

func (repo *unitRepository) DeleteNoteByID(id string) error {
	return errors.Wrap(repo.db.Delete(&noteRow{}, "id = ?", id).Error, "deleting note")
}

// Past papers

func (repo *unitRepository) CreatePastPaper(p unit.PastPaper) (unit.PastPaper, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	row := rowFromPastPaper(p)
	if err := repo.db.Create(&row).Error; err != nil {
		return unit.PastPaper{}, errors.Wrap(err, "creating past paper")
	}
	return row.toPastPaper(), nil
}

func (repo *unitRepository) QueryPastPapers(unitCode string) ([]unit.PastPaper, error) {
	var rows []pastPaperRow
	if err := repo.db.Where("unit_code = ?", unitCode).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying past papers")
	}
	papers := make([]unit.PastPaper, 0, len(rows))
	for _, row := range rows {
		papers = append(papers, row.toPastPaper())
	}
	return papers, nil
}

func (repo *unitRepository) GetPastPaperByID(id string) (unit.PastPaper, error) {
	var row pastPaperRow
	if err := repo.db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return unit.PastPaper{}, unit.ErrItemNotFound
		}
		return unit.PastPaper{}, errors.Wrap(err, "getting past paper by id")
	}
	return row.toPastPaper(), nil
}

func (repo *unitRepository) DeletePastPaperByID(id string) error {
	return errors.Wrap(repo.db.Delete(&pastPaperRow{}, "id = ?", id).Error, "deleting past paper")
}

// Assignments

func (repo *unitRepository) CreateAssignment(a unit.Assignment) (unit.Assignment, error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	row := rowFromAssignment(a)
	if err := repo.db.Create(&row).Error; err != nil {
		return unit.Assignment{}, errors.Wrap(err, "creating assignment")
	}
	return row.toAssignment(), nil
}

func (repo *unitRepository) QueryAssignments(unitCode string) ([]unit.Assignment, error) {
	var rows []assignmentRow
	if err := repo.db.Where("unit_code = ?", unitCode).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	assignments := make([]unit.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.toAssignment())
	}
	return assignments, nil
}

func (repo *unitRepository) QueryAllAssignments() ([]unit.Assignment, error) {
	var rows []assignmentRow
	if err := repo.db.Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying all assignments")
	}
	assignments := make([]unit.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.toAssignment())
	}
	return assignments, nil
}

func (repo *unitRepository) GetAssignmentByID(id string) (unit.Assignment, error) {
	var row assignmentRow
	if err := repo.db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return unit.Assignment{}, unit.ErrItemNotFound
		}
		return unit.Assignment{}, errors.Wrap(err, "getting assignment by id")
	}
	return row.toAssignment(), nil
}

func (repo *unitRepository) DeleteAssignmentByID(id string) error {
	return errors.Wrap(repo.db.Delete(&assignmentRow{}, "id = ?", id).Error, "deleting assignment")
}
