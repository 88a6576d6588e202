package crud

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hottakes/domain"
	"hottakes/errs"
)

func TestTakeCreate(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "poster")
	ts := NewTakeService(db)

	take := domain.Take{
		UserID:   user.ID,
		Contents: "  Tea is better lukewarm  ",
	}
	require.NoError(t, ts.Create(&take))

	assert.NotZero(t, take.ID)
	assert.Equal(t, "Tea is better lukewarm", take.Contents, "contents get trimmed")
	assert.False(t, take.CreatedAt.IsZero())
	assert.Equal(t, user.Username, take.User.Username, "author comes back preloaded")
}

func TestTakeCreate_Validation(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "poster")
	ts := NewTakeService(db)

	tests := []struct {
		name     string
		contents string
		wantErr  bool
	}{
		{name: "blank", contents: "", wantErr: true},
		{name: "whitespace only", contents: "   \t  ", wantErr: true},
		{name: "single character", contents: "x", wantErr: false},
		{name: "max length", contents: strings.Repeat("a", domain.MaxTakeLength), wantErr: false},
		{name: "one over max", contents: strings.Repeat("a", domain.MaxTakeLength+1), wantErr: true},
		{name: "multibyte runes count as one", contents: strings.Repeat("ä", domain.MaxTakeLength), wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			take := domain.Take{UserID: user.ID, Contents: tt.contents}
			err := ts.Create(&take)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestTakeCreate_RequiresOwner(t *testing.T) {
	db := testDB(t)
	ts := NewTakeService(db)

	err := ts.Create(&domain.Take{Contents: "ownerless"})
	require.Error(t, err)
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
}

func TestTakeByID_NotFound(t *testing.T) {
	db := testDB(t)
	ts := NewTakeService(db)

	_, err := ts.ByID(12345)
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestTakeDelete_OwnerOnly(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner")
	stranger := seedUser(t, db, "stranger")
	ts := NewTakeService(db)
	take := seedTake(t, db, owner, "mine, not yours")

	err := ts.Delete(take.ID, stranger.ID)
	require.Error(t, err)
	assert.Equal(t, errs.EFORBIDDEN, errs.ErrorCode(err))

	// Still there.
	_, err = ts.ByID(take.ID)
	require.NoError(t, err)

	require.NoError(t, ts.Delete(take.ID, owner.ID))

	_, err = ts.ByID(take.ID)
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestTakeDelete_NotFound(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "someone")
	ts := NewTakeService(db)

	err := ts.Delete(12345, user.ID)
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestTakeDelete_CascadesLikes(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner")
	fan1 := seedUser(t, db, "fan1")
	fan2 := seedUser(t, db, "fan2")
	ts := NewTakeService(db)
	ls := NewLikeService(db)
	take := seedTake(t, db, owner, "everyone loves this")

	_, err := ls.Add(fan1.ID, take.ID)
	require.NoError(t, err)
	_, err = ls.Add(fan2.ID, take.ID)
	require.NoError(t, err)

	require.NoError(t, ts.Delete(take.ID, owner.ID))

	var remaining int64
	require.NoError(t, db.Model(&domain.Like{}).Where("take_id = ?", take.ID).Count(&remaining).Error)
	assert.Zero(t, remaining, "deleting the take deletes its likes")
}

func TestTakeAll_Window(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "poster")
	ts := NewTakeService(db)
	now := time.Now()

	old := domain.Take{UserID: user.ID, Contents: "ancient history", CreatedAt: now.Add(-48 * time.Hour)}
	require.NoError(t, ts.Create(&old))
	recent := domain.Take{UserID: user.ID, Contents: "fresh off the press", CreatedAt: now.Add(-time.Hour)}
	require.NoError(t, ts.Create(&recent))

	all, err := ts.All(nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	window := domain.TodayWindow(now)
	windowed, err := ts.All(&window)
	require.NoError(t, err)
	require.Len(t, windowed, 1)
	assert.Equal(t, recent.ID, windowed[0].ID)
}
