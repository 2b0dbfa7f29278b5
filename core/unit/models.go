package unit

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Einzelgaanger/darasa/core"
)

// Unit is a course identified by a unique code, e.g. "MAT 2101".
// It owns notes, assignments and past papers.
type Unit struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// Note is a content item belonging to a unit. Immutable after creation,
// except deletion by its creator.
type Note struct {
	ID          string    `json:"id"`
	UnitCode    string    `json:"unit_code"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FileURL     string    `json:"file_url"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// PastPaper is a content item belonging to a unit.
type PastPaper struct {
	ID        string    `json:"id"`
	UnitCode  string    `json:"unit_code"`
	Title     string    `json:"title"`
	Year      string    `json:"year"`
	FileURL   string    `json:"file_url"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// Assignment is a content item belonging to a unit, with an optional deadline.
// CreatedAt doubles as the posting timestamp completion durations are measured
// against.
type Assignment struct {
	ID          string     `json:"id"`
	UnitCode    string     `json:"unit_code"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	FileURL     string     `json:"file_url"`
	Deadline    *time.Time `json:"deadline"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"` // UTC
}

// Annotated variants carry the requesting user's derived flags.

type AnnotatedNote struct {
	Note
	Viewed bool `json:"viewed"`
}

type AnnotatedPastPaper struct {
	PastPaper
	Viewed bool `json:"viewed"`
}

type AnnotatedAssignment struct {
	Assignment
	Completed bool `json:"completed"`
}

// NewUnit contains information needed to create a new Unit.
type NewUnit struct {
	Code string `json:"code" form:"code" validate:"required,unitcode"`
	Name string `json:"name" form:"name" validate:"required"`
}

func (nu *NewUnit) Validate(validate *validator.Validate) error {
	nu.Code = core.CleanString(nu.Code)
	nu.Name = core.CleanString(nu.Name)
	return validate.Struct(nu)
}

// NewNote contains information needed to create a new Note.
type NewNote struct {
	Title       string `json:"title" form:"title" validate:"required"`
	Description string `json:"description" form:"description"`
	FileURL     string `json:"-" form:"-"`
}

func (nn *NewNote) Validate(validate *validator.Validate) error {
	nn.Title = core.CleanString(nn.Title)
	nn.Description = core.CleanString(nn.Description)
	return validate.Struct(nn)
}

// NewPastPaper contains information needed to create a new PastPaper.
type NewPastPaper struct {
	Title   string `json:"title" form:"title" validate:"required"`
	Year    string `json:"year" form:"year" validate:"omitempty,len=4,numeric"`
	FileURL string `json:"-" form:"-"`
}

func (np *NewPastPaper) Validate(validate *validator.Validate) error {
	np.Title = core.CleanString(np.Title)
	np.Year = core.CleanString(np.Year)
	return validate.Struct(np)
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	Title       string     `json:"title" form:"title" validate:"required"`
	Description string     `json:"description" form:"description"`
	Deadline    *time.Time `json:"deadline" form:"-"`
	FileURL     string     `json:"-" form:"-"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	if na.Deadline != nil && na.Deadline.Before(time.Now()) {
		return core.NewValidationError(nil, core.FieldError{Field: "deadline", Error: "deadline cannot be in the past"})
	}
	return validate.Struct(na)
}
