package repos_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/validately/startup-validator-backend/internal/logger"
	"github.com/validately/startup-validator-backend/internal/repos"
	"github.com/validately/startup-validator-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&types.User{}, &types.UserToken{}, &types.Idea{}))
	return db
}

func TestIdeaRepoListByUserID(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := repos.NewIdeaRepo(db, logger.NewNop())

	alice := uuid.New()
	bob := uuid.New()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	seed := []*types.Idea{
		{ID: uuid.New(), UserID: alice, Title: "oldest", Evaluation: datatypes.JSON(`{}`), CreatedAt: base},
		{ID: uuid.New(), UserID: alice, Title: "middle", Evaluation: datatypes.JSON(`{}`), CreatedAt: base.Add(time.Minute)},
		{ID: uuid.New(), UserID: bob, Title: "bobs idea", Evaluation: datatypes.JSON(`{}`), CreatedAt: base.Add(2 * time.Minute)},
		{ID: uuid.New(), UserID: alice, Title: "newest", Evaluation: datatypes.JSON(`{}`), CreatedAt: base.Add(3 * time.Minute)},
	}
	_, err := repo.Create(ctx, nil, seed)
	require.NoError(t, err)

	listed, err := repo.ListByUserID(ctx, nil, alice)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	require.Equal(t, "newest", listed[0].Title)
	require.Equal(t, "middle", listed[1].Title)
	require.Equal(t, "oldest", listed[2].Title)
	for _, idea := range listed {
		require.Equal(t, alice, idea.UserID)
	}
}

func TestIdeaRepoGetByIDs(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := repos.NewIdeaRepo(db, logger.NewNop())

	idea := &types.Idea{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		Title:      "a single idea",
		Evaluation: datatypes.JSON(`{"success":true}`),
		CreatedAt:  time.Now().UTC(),
	}
	_, err := repo.Create(ctx, nil, []*types.Idea{idea})
	require.NoError(t, err)

	found, err := repo.GetByIDs(ctx, nil, []uuid.UUID{idea.ID})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, idea.Title, found[0].Title)

	missing, err := repo.GetByIDs(ctx, nil, []uuid.UUID{uuid.New()})
	require.NoError(t, err)
	require.Empty(t, missing)

	none, err := repo.GetByIDs(ctx, nil, nil)
	require.NoError(t, err)
	require.Empty(t, none)
}
