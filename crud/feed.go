package crud

import (
	"errors"

	"gorm.io/gorm"

	"hottakes/domain"
	"hottakes/errs"
)

// FeedService is the read path of the feed. It projects takes into TakeViews,
// the one shape that leaves the system, and owns the feed's ordering.
// It implements the domain.FeedService interface.
type FeedService struct {
	feedGorm
}

// feedGorm runs the feed's read queries against the database.
// It never mutates anything, so it's safe to call concurrently
// with any writer.
type feedGorm struct {
	db *gorm.DB
}

// NewFeedService returns an instance of FeedService.
func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{
		feedGorm{
			db: db,
		},
	}
}

// Ensure the FeedService struct properly implements the domain.FeedService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.FeedService = &FeedService{}

// Query retrieves takes with their like state, most recent first. Ties on
// created_at fall back to id descending so the order is a deterministic
// total order. A nil window means all takes.
func (fg *feedGorm) Query(window *domain.TimeRange) ([]domain.TakeView, error) {
	var takes []domain.Take
	q := fg.db.
		Preload("User").
		Preload("Likes.User").
		Order("created_at DESC, id DESC")
	if window != nil {
		q = q.Where("created_at BETWEEN ? AND ?", window.From, window.Until)
	}
	if err := q.Find(&takes).Error; err != nil {
		return nil, err
	}
	views := make([]domain.TakeView, 0, len(takes))
	for i := range takes {
		views = append(views, *project(&takes[i]))
	}
	return views, nil
}

// View projects a single take into its feed shape.
// If the take doesn't exist, it returns errs.ENOTFOUND.
func (fg *feedGorm) View(takeID int) (*domain.TakeView, error) {
	var take domain.Take
	err := fg.db.
		Preload("User").
		Preload("Likes.User").
		First(&take, "id = ?", takeID).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The take does not exist.")
		}
		return nil, err
	}
	return project(&take), nil
}

// project builds the TakeView for a take whose likes have been preloaded.
func project(take *domain.Take) *domain.TakeView {
	likers := make([]domain.User, 0, len(take.Likes))
	for _, like := range take.Likes {
		likers = append(likers, like.User)
	}
	return &domain.TakeView{
		Take:          *take,
		NumberOfLikes: len(take.Likes),
		Likers:        likers,
	}
}
