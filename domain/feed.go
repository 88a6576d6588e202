package domain

import (
	"time"
)

// Feed event types, broadcast to every connected subscriber whenever a
// take is created or its like state changes.
const (
	EventTakeCreated = "take_created"
	EventTakeLiked   = "take_liked"
	EventTakeUnliked = "take_unliked"
)

// TakeView is the one projection of a take that leaves the system, both on
// the feed read path and in broadcast payloads. It carries the take itself
// plus its derived like state.
type TakeView struct {
	Take
	NumberOfLikes int    `json:"number_of_likes"`
	Likers        []User `json:"likers"`
}

// FeedService is the read path of the feed.
type FeedService interface {
	// Query returns take views ordered most recent first (created_at
	// descending, ties broken by id descending). A nil window means all takes.
	Query(window *TimeRange) ([]TakeView, error)
	// View projects a single take into its feed shape.
	View(takeID int) (*TakeView, error)
}

// Broadcaster fans a feed event out to all currently connected subscribers.
// Delivery is best-effort and must never block or fail the write that
// triggered it.
type Broadcaster interface {
	Publish(event string, view *TakeView)
}

// TodayWindow is the rolling window backing the "today's takes" feed.
// It reaches 27 hours back and 3 hours ahead, the slack absorbs client
// clock skew and the drift of an elapsed posting day.
func TodayWindow(now time.Time) TimeRange {
	return TimeRange{
		From:  now.Add(-27 * time.Hour),
		Until: now.Add(3 * time.Hour),
	}
}
