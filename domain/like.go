package domain

// Like represents a many-to-many relationship between a User and a Take.
// It's a pure set membership, not a counted or timestamped event: the
// composite primary key doubles as the uniqueness constraint, so the
// database can never hold two likes for the same (user, take) pair.
type Like struct {
	UserID int  `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	TakeID int  `json:"take_id" gorm:"primaryKey;autoIncrement:false"`
	User   User `json:"-"`
}

// LikeService is a set of methods to manipulate and work with the Like model.
// Add and Remove are idempotent toggles. Both report whether they changed
// anything, repeating either is never an error.
type LikeService interface {
	Add(userID, takeID int) (added bool, err error)
	Remove(userID, takeID int) (removed bool, err error)
	CountFor(takeID int) (int, error)
	LikersOf(takeID int) ([]User, error)
}
