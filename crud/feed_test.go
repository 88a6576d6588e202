package crud

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hottakes/domain"
	"hottakes/errs"
)

func TestFeedQuery_Order(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "poster")
	ts := NewTakeService(db)
	fs := NewFeedService(db)
	now := time.Now().Truncate(time.Second)

	t1 := domain.Take{UserID: user.ID, Contents: "first", CreatedAt: now.Add(-3 * time.Hour)}
	require.NoError(t, ts.Create(&t1))
	t2 := domain.Take{UserID: user.ID, Contents: "second", CreatedAt: now.Add(-2 * time.Hour)}
	require.NoError(t, ts.Create(&t2))
	t3 := domain.Take{UserID: user.ID, Contents: "third", CreatedAt: now.Add(-1 * time.Hour)}
	require.NoError(t, ts.Create(&t3))

	views, err := fs.Query(nil)
	require.NoError(t, err)
	require.Len(t, views, 3)

	// Most recent first.
	assert.Equal(t, t3.ID, views[0].ID)
	assert.Equal(t, t2.ID, views[1].ID)
	assert.Equal(t, t1.ID, views[2].ID)
}

func TestFeedQuery_TieBreakOnID(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "poster")
	ts := NewTakeService(db)
	fs := NewFeedService(db)
	at := time.Now().Truncate(time.Second)

	// Same timestamp, so the order has to fall back to id descending.
	a := domain.Take{UserID: user.ID, Contents: "same moment a", CreatedAt: at}
	require.NoError(t, ts.Create(&a))
	b := domain.Take{UserID: user.ID, Contents: "same moment b", CreatedAt: at}
	require.NoError(t, ts.Create(&b))

	views, err := fs.Query(nil)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, b.ID, views[0].ID)
	assert.Equal(t, a.ID, views[1].ID)
}

func TestFeedQuery_Window(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "poster")
	ts := NewTakeService(db)
	fs := NewFeedService(db)
	now := time.Now()

	tooOld := domain.Take{UserID: user.ID, Contents: "28 hours ago", CreatedAt: now.Add(-28 * time.Hour)}
	require.NoError(t, ts.Create(&tooOld))
	inWindow := domain.Take{UserID: user.ID, Contents: "an hour ago", CreatedAt: now.Add(-time.Hour)}
	require.NoError(t, ts.Create(&inWindow))

	window := domain.TodayWindow(now)
	views, err := fs.Query(&window)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, inWindow.ID, views[0].ID)

	// No window means everything.
	views, err = fs.Query(nil)
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestFeedView_LikeState(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner")
	fan1 := seedUser(t, db, "fan1")
	fan2 := seedUser(t, db, "fan2")
	ls := NewLikeService(db)
	fs := NewFeedService(db)
	take := seedTake(t, db, owner, "likeable content")

	_, err := ls.Add(fan1.ID, take.ID)
	require.NoError(t, err)
	_, err = ls.Add(fan2.ID, take.ID)
	require.NoError(t, err)

	view, err := fs.View(take.ID)
	require.NoError(t, err)
	assert.Equal(t, take.ID, view.ID)
	assert.Equal(t, owner.Username, view.User.Username)
	assert.Equal(t, 2, view.NumberOfLikes)

	var likerNames []string
	for _, liker := range view.Likers {
		likerNames = append(likerNames, liker.Username)
	}
	assert.ElementsMatch(t, []string{"fan1", "fan2"}, likerNames)
}

func TestFeedView_NoLikes(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner")
	fs := NewFeedService(db)
	take := seedTake(t, db, owner, "nobody cares yet")

	view, err := fs.View(take.ID)
	require.NoError(t, err)
	assert.Zero(t, view.NumberOfLikes)
	assert.Empty(t, view.Likers)
}

func TestFeedView_NotFound(t *testing.T) {
	db := testDB(t)
	fs := NewFeedService(db)

	_, err := fs.View(12345)
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}
