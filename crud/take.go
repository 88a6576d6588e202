package crud

import (
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"hottakes/domain"
	"hottakes/errs"
)

// TakeService manages Takes.
// It implements the domain.TakeService interface.
type TakeService struct {
	takeValidator
}

// takeValidator runs validations on incoming Take data.
// On success, it passes the data on to takeGorm.
// Otherwise, it returns the error of the validation that has failed.
type takeValidator struct {
	takeGorm
}

// takeGorm runs CRUD operations on the database using incoming Take data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type takeGorm struct {
	db *gorm.DB
}

// NewTakeService returns an instance of TakeService.
func NewTakeService(db *gorm.DB) *TakeService {
	return &TakeService{
		takeValidator{
			takeGorm{
				db: db,
			},
		},
	}
}

// Ensure the TakeService struct properly implements the domain.TakeService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.TakeService = &TakeService{}

// Create runs validations needed for creating new Take database records.
func (tv *takeValidator) Create(take *domain.Take) error {
	err := runTakeValFns(take,
		tv.userIdValid,
		tv.normalizeContents,
		tv.contentsNotBlank,
		tv.contentsMaxLength)
	if err != nil {
		return err
	}
	return tv.takeGorm.Create(take)
}

// runTakeValFns runs any number of functions of type takeValFn on the passed in Take object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runTakeValFns(take *domain.Take, fns ...takeValFn) error {
	for _, fn := range fns {
		if err := fn(take); err != nil {
			return err
		}
	}
	return nil
}

// A takeValFn is any function that takes in a pointer to a domain.Take object and returns an error.
type takeValFn = func(take *domain.Take) error

// normalizeContents strips surrounding whitespace before the length checks run.
func (tv *takeValidator) normalizeContents(take *domain.Take) error {
	take.Contents = strings.TrimSpace(take.Contents)
	return nil
}

// contentsNotBlank makes sure that the Take's contents are not empty.
func (tv *takeValidator) contentsNotBlank(take *domain.Take) error {
	if take.Contents == "" {
		return errs.Errorf(errs.EINVALID, "Take contents must not be blank.")
	}
	return nil
}

// contentsMaxLength makes sure that the Take's contents do not exceed the maximum length.
func (tv *takeValidator) contentsMaxLength(take *domain.Take) error {
	if utf8.RuneCountInString(take.Contents) > domain.MaxTakeLength {
		return errs.Errorf(errs.EINVALID, "Take contents max length is %d characters.", domain.MaxTakeLength)
	}
	return nil
}

// userIdValid ensures that the userId is not empty.
func (tv *takeValidator) userIdValid(take *domain.Take) error {
	if take.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "User ID is required.")
	}
	return nil
}

// ByID retrieves a single Take by ID, along with its author.
// If the record doesn't exist, it returns errs.ENOTFOUND.
func (tg *takeGorm) ByID(id int) (*domain.Take, error) {
	var take domain.Take
	err := tg.db.
		Preload("User").
		First(&take, "id = ?", id).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The take does not exist.")
		}
		return nil, err
	}
	return &take, nil
}

// All retrieves takes, optionally restricted to a closed creation-time window.
// Ordering is left to the feed layer.
func (tg *takeGorm) All(window *domain.TimeRange) ([]domain.Take, error) {
	var takes []domain.Take
	q := tg.db.Preload("User")
	if window != nil {
		q = q.Where("created_at BETWEEN ? AND ?", window.From, window.Until)
	}
	if err := q.Find(&takes).Error; err != nil {
		return nil, err
	}
	return takes, nil
}

// Create stores the data from the Take object in a new database record,
// then reloads it so the author association is populated on the way out.
func (tg *takeGorm) Create(take *domain.Take) error {
	if err := tg.db.Create(take).Error; err != nil {
		return err
	}
	return tg.db.Preload("User").First(take, "id = ?", take.ID).Error
}

// Delete permanently deletes a Take record from the database, along with all
// of its Likes. Only the take's owner may delete it.
func (tg *takeGorm) Delete(id int, requesterID int) error {
	var take domain.Take
	err := tg.db.First(&take, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "The take does not exist.")
		}
		return err
	}
	if take.UserID != requesterID {
		return errs.Errorf(errs.EFORBIDDEN, "You cannot delete a take that is not yours.")
	}
	return tg.db.Select("Likes").Delete(&take).Error
}
