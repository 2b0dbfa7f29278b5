package gormrepos

import (
	"strings"
	"time"

	"github.com/Einzelgaanger/darasa/core/track"
	"github.com/Einzelgaanger/darasa/core/unit"
	"github.com/Einzelgaanger/darasa/core/user"
)

// Row types mirror the domain models one table each; repositories map between
// the two so gorm tags never leak into the domain packages.

type userRow struct {
	ID              string  `gorm:"column:id;type:uuid;primaryKey"`
	Name            string  `gorm:"column:name;not null"`
	AdmissionNo     string  `gorm:"column:admission_no;uniqueIndex;not null"`
	Email           *string `gorm:"column:email;uniqueIndex"`
	ProfileImageURL string  `gorm:"column:profile_image_url"`
	IsActive        *bool   `gorm:"column:is_active;not null;default:true"`
	Roles           string  `gorm:"column:roles;not null;default:''"` // comma-separated
	PasswordHash    []byte  `gorm:"column:password_hash"`
	OverallRank     *int    `gorm:"column:overall_rank"`

	CreatedAt time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt time.Time  `gorm:"column:updated_at;not null"`
	LastLogin *time.Time `gorm:"column:last_login"`
}

func (userRow) TableName() string { return "users" }

func rowFromUser(usr user.User) userRow {
	row := userRow{
		ID:              usr.ID,
		Name:            usr.Name,
		AdmissionNo:     usr.AdmissionNo,
		ProfileImageURL: usr.ProfileImageURL,
		IsActive:        usr.IsActive,
		Roles:           strings.Join(usr.Roles, ","),
		PasswordHash:    usr.PasswordHash,
		OverallRank:     usr.OverallRank,
		CreatedAt:       usr.CreatedAt.UTC(),
		UpdatedAt:       usr.UpdatedAt.UTC(),
	}
	if usr.Email != "" {
		email := usr.Email
		row.Email = &email
	}
	if !usr.LastLogin.IsZero() {
		lastLogin := usr.LastLogin.UTC()
		row.LastLogin = &lastLogin
	}
	return row
}

func (row userRow) toUser() user.User {
	usr := user.User{
		ID:              row.ID,
		Name:            row.Name,
		AdmissionNo:     row.AdmissionNo,
		ProfileImageURL: row.ProfileImageURL,
		IsActive:        row.IsActive,
		PasswordHash:    row.PasswordHash,
		OverallRank:     row.OverallRank,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if row.Email != nil {
		usr.Email = *row.Email
	}
	if row.Roles != "" {
		usr.Roles = strings.Split(row.Roles, ",")
	}
	if row.LastLogin != nil {
		usr.LastLogin = *row.LastLogin
	}
	return usr
}

type unitRow struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey"`
	Code      string    `gorm:"column:code;uniqueIndex;not null"`
	Name      string    `gorm:"column:name;not null"`
	CreatedBy string    `gorm:"column:created_by;type:uuid;index"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (unitRow) TableName() string { return "units" }

func rowFromUnit(u unit.Unit) unitRow {
	return unitRow{ID: u.ID, Code: u.Code, Name: u.Name, CreatedBy: u.CreatedBy, CreatedAt: u.CreatedAt.UTC()}
}

func (row unitRow) toUnit() unit.Unit {
	return unit.Unit{ID: row.ID, Code: row.Code, Name: row.Name, CreatedBy: row.CreatedBy, CreatedAt: row.CreatedAt}
}

type noteRow struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey"`
	UnitCode    string    `gorm:"column:unit_code;index;not null"`
	Title       string    `gorm:"column:title;not null"`
	Description string    `gorm:"column:description"`
	FileURL     string    `gorm:"column:file_url"`
	CreatedBy   string    `gorm:"column:created_by;type:uuid;index"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
}

func (noteRow) TableName() string { return "notes" }

func rowFromNote(n unit.Note) noteRow {
	return noteRow{
		ID:          n.ID,
		UnitCode:    n.UnitCode,
		Title:       n.Title,
		Description: n.Description,
		FileURL:     n.FileURL,
		CreatedBy:   n.CreatedBy,
		CreatedAt:   n.CreatedAt.UTC(),
	}
}

func (row noteRow) toNote() unit.Note {
	return unit.Note{
		ID:          row.ID,
		UnitCode:    row.UnitCode,
		Title:       row.Title,
		Description: row.Description,
		FileURL:     row.FileURL,
		CreatedBy:   row.CreatedBy,
		CreatedAt:   row.CreatedAt,
	}
}

type pastPaperRow struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey"`
	UnitCode  string    `gorm:"column:unit_code;index;not null"`
	Title     string    `gorm:"column:title;not null"`
	Year      string    `gorm:"column:year"`
	FileURL   string    `gorm:"column:file_url"`
	CreatedBy string    `gorm:"column:created_by;type:uuid;index"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (pastPaperRow) TableName() string { return "past_papers" }

func rowFromPastPaper(p unit.PastPaper) pastPaperRow {
	return pastPaperRow{
		ID:        p.ID,
		UnitCode:  p.UnitCode,
		Title:     p.Title,
		Year:      p.Year,
		FileURL:   p.FileURL,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt.UTC(),
	}
}

func (row pastPaperRow) toPastPaper() unit.PastPaper {
	return unit.PastPaper{
		ID:        row.ID,
		UnitCode:  row.UnitCode,
		Title:     row.Title,
		Year:      row.Year,
		FileURL:   row.FileURL,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
	}
}

type assignmentRow struct {
	ID          string     `gorm:"column:id;type:uuid;primaryKey"`
	UnitCode    string     `gorm:"column:unit_code;index;not null"`
	Title       string     `gorm:"column:title;not null"`
	Description string     `gorm:"column:description"`
	FileURL     string     `gorm:"column:file_url"`
	Deadline    *time.Time `gorm:"column:deadline"`
	CreatedBy   string     `gorm:"column:created_by;type:uuid;index"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null"`
}

func (assignmentRow) TableName() string { return "assignments" }

func rowFromAssignment(a unit.Assignment) assignmentRow {
	return assignmentRow{
		ID:          a.ID,
		UnitCode:    a.UnitCode,
		Title:       a.Title,
		Description: a.Description,
		FileURL:     a.FileURL,
		Deadline:    a.Deadline,
		CreatedBy:   a.CreatedBy,
		CreatedAt:   a.CreatedAt.UTC(),
	}
}

func (row assignmentRow) toAssignment() unit.Assignment {
	return unit.Assignment{
		ID:          row.ID,
		UnitCode:    row.UnitCode,
		Title:       row.Title,
		Description: row.Description,
		FileURL:     row.FileURL,
		Deadline:    row.Deadline,
		CreatedBy:   row.CreatedBy,
		CreatedAt:   row.CreatedAt,
	}
}

// viewRecordRow's composite primary key is what makes recordView idempotent
// under concurrent duplicate submissions.
type viewRecordRow struct {
	ItemID   string    `gorm:"column:item_id;type:uuid;primaryKey"`
	UserID   string    `gorm:"column:user_id;type:uuid;primaryKey;index"`
	Kind     string    `gorm:"column:kind;not null;index"`
	ViewedAt time.Time `gorm:"column:viewed_at;not null"`
}

func (viewRecordRow) TableName() string { return "view_records" }

func rowFromViewRecord(rec track.ViewRecord) viewRecordRow {
	return viewRecordRow{
		ItemID:   rec.ItemID,
		UserID:   rec.UserID,
		Kind:     string(rec.Kind),
		ViewedAt: rec.ViewedAt.UTC(),
	}
}

func (row viewRecordRow) toViewRecord() track.ViewRecord {
	return track.ViewRecord{
		ItemID:   row.ItemID,
		UserID:   row.UserID,
		Kind:     track.ItemKind(row.Kind),
		ViewedAt: row.ViewedAt,
	}
}

type completionRecordRow struct {
	AssignmentID string    `gorm:"column:assignment_id;type:uuid;primaryKey"`
	UserID       string    `gorm:"column:user_id;type:uuid;primaryKey;index"`
	CompletedAt  time.Time `gorm:"column:completed_at;not null"`
}

func (completionRecordRow) TableName() string { return "completion_records" }

func rowFromCompletionRecord(rec track.CompletionRecord) completionRecordRow {
	return completionRecordRow{
		AssignmentID: rec.AssignmentID,
		UserID:       rec.UserID,
		CompletedAt:  rec.CompletedAt.UTC(),
	}
}

func (row completionRecordRow) toCompletionRecord() track.CompletionRecord {
	return track.CompletionRecord{
		AssignmentID: row.AssignmentID,
		UserID:       row.UserID,
		CompletedAt:  row.CompletedAt,
	}
}
