package gormrepos

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Einzelgaanger/darasa/core/user"
)

type userRepository struct {
	db *gorm.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckUniqueness(admNo, email string, excludedUsers ...user.User) error {
	exclIDs := make([]string, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		exclIDs = append(exclIDs, usr.ID)
	}

	q := repo.db.Model(&userRow{}).Where("admission_no = ?", admNo)
	if len(exclIDs) > 0 {
		q = q.Where("id NOT IN ?", exclIDs)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return errors.Wrap(err, "checking admission number uniqueness")
	}
	if count > 0 {
		return user.ErrAdmissionNoExists
	}

	if email != "" {
		q = repo.db.Model(&userRow{}).Where("email = ?", email)
		if len(exclIDs) > 0 {
			q = q.Where("id NOT IN ?", exclIDs)
		}
		if err := q.Count(&count).Error; err != nil {
			return errors.Wrap(err, "checking email uniqueness")
		}
		if count > 0 {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	if usr.ID == "" {
		usr.ID = uuid.New().String()
	}
	row := rowFromUser(usr)
	if err := repo.db.Create(&row).Error; err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return row.toUser(), nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	var rows []userRow
	if err := repo.db.Order("created_at").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toUser())
	}
	return users, nil
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	var row userRow
	if err := repo.db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user by id")
	}
	return row.toUser(), nil
}

func (repo *userRepository) GetUsersByID(ids ...string) ([]user.User, error) {
	var rows []userRow
	if err := repo.db.Find(&rows, "id IN ?", ids).Error; err != nil {
		return nil, errors.Wrap(err, "getting users by id")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toUser())
	}
	return users, nil
}

func (repo *userRepository) GetUserByAdmissionNo(admNo string) (user.User, error) {
	var row userRow
	if err := repo.db.First(&row, "admission_no = ?", admNo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user by admission number")
	}
	return row.toUser(), nil
}

func (repo *userRepository) UpdateLastLogin(usr user.User) (user.User, error) {
	lastLogin := usr.LastLogin.UTC()
	res := repo.db.Model(&userRow{}).Where("id = ?", usr.ID).Update("last_login", &lastLogin)
	if res.Error != nil {
		return user.User{}, errors.Wrap(res.Error, "updating last login")
	}
	if res.RowsAffected == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *userRepository) UpdateOverallRank(id string, rank *int) error {
	res := repo.db.Model(&userRow{}).Where("id = ?", id).
		Updates(map[string]interface{}{"overall_rank": rank, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return errors.Wrap(res.Error, "updating overall rank")
	}
	if res.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (repo *userRepository) DeleteUsersByID(ids ...string) error {
	return errors.Wrap(repo.db.Delete(&userRow{}, "id IN ?", ids).Error, "deleting users")
}
