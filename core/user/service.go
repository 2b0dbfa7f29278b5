package user

import (
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/Einzelgaanger/darasa/core"
)

var (
	// errors
	ErrNotFound          = errors.New("user not found")
	ErrEmailExists       = errors.New("a user with this email already exists")
	ErrAdmissionNoExists = errors.New("a user with this admission number already exists")
)

type (
	Repository interface {
		CheckUniqueness(admNo, email string, excludedUsers ...User) error
		CreateUser(usr User) (User, error)
		QueryAllUsers() ([]User, error)
		GetUserByID(id string) (User, error)
		GetUsersByID(ids ...string) ([]User, error)
		GetUserByAdmissionNo(admNo string) (User, error)
		UpdateLastLogin(usr User) (User, error)
		// UpdateOverallRank refreshes the cached cross-unit rank; a nil rank clears it.
		UpdateOverallRank(id string, rank *int) error
		DeleteUsersByID(ids ...string) error
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc}
}

func (svc *Service) checkUniqueness(admNo, email string, exclUsers ...User) error {
	if err := svc.repo.CheckUniqueness(admNo, email, exclUsers...); err != nil {
		var field string
		switch err {
		case ErrAdmissionNoExists:
			field = "admission_no"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *Service) Create(nu NewUser) (User, error) {
	now := time.Now().UTC()
	active := true
	roles := nu.Roles
	if len(roles) == 0 {
		roles = []string{RoleStudent}
	}
	usr := User{
		Name:        nu.Name,
		AdmissionNo: nu.AdmissionNo,
		Email:       nu.Email,
		IsActive:    &active,
		Roles:       roles,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr, err := svc.repo.CreateUser(usr)
	if err != nil {
		return User{}, err
	}
	svc.sendWelcomeMail(usr)
	return usr, nil
}

func (svc *Service) sendWelcomeMail(usr User) {
	if svc.mailSvc == nil || usr.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Welcome to " + core.Conf.AppName,
		BodyStr: "Hi " + usr.Name + ",\n\nYour account has been created. " +
			"Log in with your admission number at " + core.Conf.FrontendBaseURL + ".",
	})
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *Service) GetByID(id string) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *Service) GetByAdmissionNo(admNo string) (User, error) {
	return svc.repo.GetUserByAdmissionNo(core.CleanString(admNo, true /* lower */))
}

func (svc *Service) SetLastLogin(usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateLastLogin(usr)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteUsersByID(ids...)
}
