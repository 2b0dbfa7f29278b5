package gormrepos

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Einzelgaanger/darasa/core/track"
)

type trackRepository struct {
	db *gorm.DB
}

var _ track.Repository = (*trackRepository)(nil) // interface compliance check

func NewTrackRepository(db *gorm.DB) *trackRepository {
	return &trackRepository{db: db}
}

func itemTable(kind track.ItemKind) string {
	if kind == track.KindPaper {
		return "past_papers"
	}
	return "notes"
}

// Views

func (repo *trackRepository) CreateViewRecord(rec track.ViewRecord) error {
	row := rowFromViewRecord(rec)
	// the composite primary key absorbs duplicate submissions
	err := repo.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	return errors.Wrap(err, "inserting view record")
}

func (repo *trackRepository) GetViewRecord(itemID, userID string, kind track.ItemKind) (track.ViewRecord, error) {
	var row viewRecordRow
	err := repo.db.First(&row, "item_id = ? AND user_id = ? AND kind = ?", itemID, userID, string(kind)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return track.ViewRecord{}, track.ErrRecordNotFound
		}
		return track.ViewRecord{}, errors.Wrap(err, "getting view record")
	}
	return row.toViewRecord(), nil
}

func (repo *trackRepository) ViewedItemIDs(userID, unitCode string, kind track.ItemKind) ([]string, error) {
	table := itemTable(kind)
	var ids []string
	err := repo.db.Table("view_records").
		Joins("JOIN "+table+" ON "+table+".id = view_records.item_id").
		Where("view_records.user_id = ? AND view_records.kind = ? AND "+table+".unit_code = ?", userID, string(kind), unitCode).
		Pluck("view_records.item_id", &ids).Error
	return ids, errors.Wrap(err, "querying viewed item ids")
}

func (repo *trackRepository) UnviewedCount(userID, unitCode string, kind track.ItemKind) (int, error) {
	table := itemTable(kind)
	var count int64
	err := repo.db.Table(table).
		Where(table+".unit_code = ?", unitCode).
		Where("NOT EXISTS (SELECT 1 FROM view_records v WHERE v.item_id = "+table+".id AND v.user_id = ?)", userID).
		Count(&count).Error
	return int(count), errors.Wrap(err, "counting unviewed items")
}

// Completions

func (repo *trackRepository) CreateCompletionRecord(rec track.CompletionRecord) (track.CompletionRecord, error) {
	row := rowFromCompletionRecord(rec)
	// conditional insert: a concurrent duplicate loses the race and we hand
	// back the first completion untouched
	res := repo.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return track.CompletionRecord{}, errors.Wrap(res.Error, "inserting completion record")
	}
	if res.RowsAffected == 0 {
		return repo.GetCompletionRecord(rec.AssignmentID, rec.UserID)
	}
	return row.toCompletionRecord(), nil
}

func (repo *trackRepository) GetCompletionRecord(assignmentID, userID string) (track.CompletionRecord, error) {
	var row completionRecordRow
	err := repo.db.First(&row, "assignment_id = ? AND user_id = ?", assignmentID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return track.CompletionRecord{}, track.ErrRecordNotFound
		}
		return track.CompletionRecord{}, errors.Wrap(err, "getting completion record")
	}
	return row.toCompletionRecord(), nil
}

func (repo *trackRepository) CompletedAssignmentIDs(userID, unitCode string) ([]string, error) {
	var ids []string
	err := repo.db.Table("completion_records").
		Joins("JOIN assignments ON assignments.id = completion_records.assignment_id").
		Where("completion_records.user_id = ? AND assignments.unit_code = ?", userID, unitCode).
		Pluck("completion_records.assignment_id", &ids).Error
	return ids, errors.Wrap(err, "querying completed assignment ids")
}

func (repo *trackRepository) PendingCount(userID, unitCode string) (int, error) {
	var count int64
	err := repo.db.Table("assignments").
		Where("assignments.unit_code = ?", unitCode).
		Where("NOT EXISTS (SELECT 1 FROM completion_records c WHERE c.assignment_id = assignments.id AND c.user_id = ?)", userID).
		Count(&count).Error
	return int(count), errors.Wrap(err, "counting pending assignments")
}

func (repo *trackRepository) QueryUnitCompletions(unitCode string) ([]track.CompletionRecord, error) {
	var rows []completionRecordRow
	err := repo.db.Table("completion_records").
		Joins("JOIN assignments ON assignments.id = completion_records.assignment_id").
		Where("assignments.unit_code = ?", unitCode).
		Select("completion_records.*").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "querying unit completions")
	}
	records := make([]track.CompletionRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toCompletionRecord())
	}
	return records, nil
}

func (repo *trackRepository) QueryAllCompletions() ([]track.CompletionRecord, error) {
	var rows []completionRecordRow
	if err := repo.db.Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying completions")
	}
	records := make([]track.CompletionRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toCompletionRecord())
	}
	return records, nil
}
