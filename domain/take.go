package domain

import (
	"time"
)

// MaxTakeLength is the maximum number of characters a take may have.
// Validated once at creation, never re-checked afterwards.
const MaxTakeLength = 169

// Take is a single short text post. It's immutable after creation, the only
// thing that ever happens to it is getting liked, unliked or deleted.
type Take struct {
	ID       int    `json:"id"`
	UserID   int    `json:"user_id" gorm:"notNull;index"`
	User     User   `json:"user"`
	Contents string `json:"contents"`

	// Likes only exists to give gorm the association for cascading deletes.
	// Clients always get like state through the TakeView projection.
	Likes []Like `json:"-" gorm:"foreignKey:TakeID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
}

// TimeRange is a closed creation-time window used to select takes.
type TimeRange struct {
	From  time.Time
	Until time.Time
}

// Contains reports whether t falls inside the range, bounds included.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.Until)
}

// TakeService is a set of methods to manipulate and work with the Take model.
type TakeService interface {
	ByID(id int) (*Take, error)
	Create(take *Take) error
	// Delete removes a take and all of its likes. Only the owner may delete,
	// anyone else gets a forbidden error.
	Delete(id int, requesterID int) error
	// All returns takes, optionally restricted to a creation-time window.
	// No ordering guarantee, the feed does its own sorting.
	All(window *TimeRange) ([]Take, error)
}
