package crud

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hottakes/domain"
	"hottakes/errs"
)

// UserService manages Users. It's the database-facing half of the identity
// provider: it stores accounts and checks passwords. Token issuance and
// verification live in the auth package.
// It implements the domain.UserService interface.
type UserService struct {
	userValidator
}

// userValidator runs validations on incoming User data.
// On success, it passes the data on to userGorm.
// Otherwise, it returns the error of the validation that has failed.
type userValidator struct {
	pepper     string
	emailRegex *regexp.Regexp
	userGorm
}

// userGorm runs CRUD operations on the database using incoming User data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type userGorm struct {
	db *gorm.DB
}

// NewUserService returns an instance of UserService.
func NewUserService(db *gorm.DB, pepper string) *UserService {
	return &UserService{
		userValidator{
			pepper:     pepper,
			emailRegex: regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,16}$`),
			userGorm: userGorm{
				db: db,
			},
		},
	}
}

// Ensure the UserService struct properly implements the domain.UserService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.UserService = &UserService{}

// Authenticate checks a submitted email address and password for existence and correctness.
func (uv *userValidator) Authenticate(email, password string) (*domain.User, error) {
	found, err := uv.userGorm.ByEmail(email)
	if err != nil {
		return nil, err
	}

	// Append the predefined pepper to the submitted password, hash it, and
	// compare the result to the hash stored in the user's database record.
	err = bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password+uv.pepper))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, errs.Errorf(errs.EUNAUTHORIZED, "The password is incorrect.")
		}
		return nil, err
	}
	return found, nil
}

// Create runs validations needed for creating new User database records.
func (uv *userValidator) Create(user *domain.User) error {
	err := runUserValFns(user,
		uv.normalizeEmail,
		uv.emailRequired,
		uv.emailFormat,
		uv.emailNotTaken,
		uv.passwordMinLength,
		uv.bcryptPassword,
		uv.defaultUsername)
	if err != nil {
		return err
	}
	return uv.userGorm.Create(user)
}

// runUserValFns runs any number of functions of type userValFn on the passed in User object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runUserValFns(user *domain.User, fns ...userValFn) error {
	for _, fn := range fns {
		if err := fn(user); err != nil {
			return err
		}
	}
	return nil
}

// A userValFn is any function that takes in a pointer to a domain.User object and returns an error.
type userValFn = func(user *domain.User) error

// normalizeEmail lowercases and trims the email address.
func (uv *userValidator) normalizeEmail(user *domain.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return nil
}

// emailRequired makes sure that an email address was provided.
func (uv *userValidator) emailRequired(user *domain.User) error {
	if user.Email == "" {
		return errs.Errorf(errs.EINVALID, "Email address is required.")
	}
	return nil
}

// emailFormat makes sure that the email address looks like an email address.
func (uv *userValidator) emailFormat(user *domain.User) error {
	if !uv.emailRegex.MatchString(user.Email) {
		return errs.Errorf(errs.EINVALID, "Email address is not valid.")
	}
	return nil
}

// emailNotTaken makes sure that no user record with that email address exists yet.
func (uv *userValidator) emailNotTaken(user *domain.User) error {
	existing, err := uv.userGorm.ByEmail(user.Email)
	if err != nil {
		if errs.ErrorCode(err) == errs.ENOTFOUND {
			return nil
		}
		return err
	}
	if existing.ID != user.ID {
		return errs.Errorf(errs.ECONFLICT, "Email address is already taken.")
	}
	return nil
}

// passwordMinLength makes sure that the password has at least 8 characters.
func (uv *userValidator) passwordMinLength(user *domain.User) error {
	if len(user.Password) < 8 {
		return errs.Errorf(errs.EINVALID, "Password must be at least 8 characters long.")
	}
	return nil
}

// bcryptPassword hashes the transient password with bcrypt and the
// predefined pepper, then clears it.
func (uv *userValidator) bcryptPassword(user *domain.User) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password+uv.pepper), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.Password = ""
	return nil
}

var (
	usernameAdjectives = []string{"Pernicious", "Volatile", "Cuddly", "Ferocious", "Malignant", "Spicy", "Taken", "Ecstatic", "Sweet"}
	usernameNouns      = []string{"Penguin", "Dolphin", "PolarBear", "Tiger", "Platypus", "Salmon", "Wolverine", "Cat", "Dog", "Elephant"}
)

// defaultUsername assigns a generated username when none was provided.
func (uv *userValidator) defaultUsername(user *domain.User) error {
	if user.Username != "" {
		return nil
	}
	user.Username = fmt.Sprintf("%s%s%d",
		usernameAdjectives[rand.Intn(len(usernameAdjectives))],
		usernameNouns[rand.Intn(len(usernameNouns))],
		rand.Intn(1000))
	return nil
}

// ByID retrieves a single User by ID.
// If the record doesn't exist, it returns errs.ENOTFOUND.
func (ug *userGorm) ByID(id int) (*domain.User, error) {
	var user domain.User
	err := ug.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The user does not exist.")
		}
		return nil, err
	}
	return &user, nil
}

// ByEmail retrieves a single User by email address.
// If the record doesn't exist, it returns errs.ENOTFOUND.
func (ug *userGorm) ByEmail(email string) (*domain.User, error) {
	var user domain.User
	err := ug.db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The email address does not exist in our database.")
		}
		return nil, err
	}
	return &user, nil
}

// Create stores the data from the User object in a new database record.
func (ug *userGorm) Create(user *domain.User) error {
	return ug.db.Create(user).Error
}
