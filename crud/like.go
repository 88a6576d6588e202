package crud

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hottakes/domain"
	"hottakes/errs"
)

// LikeService manages Likes.
// It implements the domain.LikeService interface.
type LikeService struct {
	likeValidator
}

// likeValidator runs validations on incoming Like data.
// On success, it passes the data on to likeGorm.
// Otherwise, it returns the error of the validation that has failed.
type likeValidator struct {
	likeGorm
}

// likeGorm runs CRUD operations on the database using incoming Like data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type likeGorm struct {
	db *gorm.DB
}

// NewLikeService returns an instance of LikeService.
func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{
		likeValidator{
			likeGorm{
				db: db,
			},
		},
	}
}

// Ensure the LikeService struct properly implements the domain.LikeService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.LikeService = &LikeService{}

// Add runs validations needed for liking a take.
func (lv *likeValidator) Add(userID, takeID int) (bool, error) {
	if err := lv.userIdValid(userID); err != nil {
		return false, err
	}
	if err := lv.likedTakeExists(takeID); err != nil {
		return false, err
	}
	return lv.likeGorm.Add(userID, takeID)
}

// Remove runs validations needed for unliking a take.
func (lv *likeValidator) Remove(userID, takeID int) (bool, error) {
	if err := lv.userIdValid(userID); err != nil {
		return false, err
	}
	if err := lv.likedTakeExists(takeID); err != nil {
		return false, err
	}
	return lv.likeGorm.Remove(userID, takeID)
}

// likedTakeExists makes sure that the take to be liked actually exists.
func (lv *likeValidator) likedTakeExists(takeID int) error {
	err := lv.db.First(&domain.Take{}, "id = ?", takeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "The take does not exist.")
		}
		return err
	}
	return nil
}

// userIdValid ensures that the userId is not empty.
func (lv *likeValidator) userIdValid(userID int) error {
	if userID <= 0 {
		return errs.Errorf(errs.EINVALID, "User ID is required.")
	}
	return nil
}

// Add inserts a Like record unless the pair already exists. The insert and
// the uniqueness check are one statement, so concurrent toggles on the same
// pair can never produce a duplicate. Returns whether a record was created.
func (lg *likeGorm) Add(userID, takeID int) (bool, error) {
	like := domain.Like{UserID: userID, TakeID: takeID}
	res := lg.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Remove deletes whatever Like records match the pair. Removing a pair that
// was never liked is a no-op. Returns whether a record was deleted.
func (lg *likeGorm) Remove(userID, takeID int) (bool, error) {
	res := lg.db.Where("user_id = ? AND take_id = ?", userID, takeID).Delete(&domain.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountFor returns the number of likes a take currently has.
func (lg *likeGorm) CountFor(takeID int) (int, error) {
	var count int64
	err := lg.db.Model(&domain.Like{}).Where("take_id = ?", takeID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// LikersOf returns the users who currently like a take.
func (lg *likeGorm) LikersOf(takeID int) ([]domain.User, error) {
	var users []domain.User
	err := lg.db.
		Joins("JOIN likes ON likes.user_id = users.id").
		Where("likes.take_id = ?", takeID).
		Order("users.id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
