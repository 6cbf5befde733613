package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "staff-portal/pkg/errors"
)

func newTeamFixture() (*fakeTeamRepo, *fakeCacheRepo, TeamServiceInterface) {
	teamRepo := &fakeTeamRepo{}
	cacheRepo := newFakeCacheRepo()
	service := NewTeamService(teamRepo, cacheRepo, 0, zap.NewNop())
	return teamRepo, cacheRepo, service
}

func TestGetTeamTree_NestsChildren(t *testing.T) {
	teamRepo, _, service := newTeamFixture()
	ctx := context.Background()

	root, err := teamRepo.Create(ctx, "Компания", uuid.Nil, nil)
	require.NoError(t, err)
	child, err := teamRepo.Create(ctx, "Разработка", uuid.Nil, &root.ID)
	require.NoError(t, err)
	_, err = teamRepo.Create(ctx, "Бэкенд", uuid.Nil, &child.ID)
	require.NoError(t, err)

	tree, err := service.GetTeamTree(ctx)
	require.NoError(t, err)

	require.Len(t, tree, 1)
	assert.Equal(t, "Компания", tree[0].Name)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Разработка", tree[0].Children[0].Name)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "Бэкенд", tree[0].Children[0].Children[0].Name)
}

func TestGetTeamTree_SelfParentedTeamShownAsRoot(t *testing.T) {
	teamRepo, _, service := newTeamFixture()
	ctx := context.Background()

	root, err := teamRepo.Create(ctx, "Компания", uuid.Nil, nil)
	require.NoError(t, err)
	_, err = teamRepo.Create(ctx, "Разработка", uuid.Nil, &root.ID)
	require.NoError(t, err)

	// Испорченные данные: корень зациклен сам на себя.
	_, err = teamRepo.UpdateParent(ctx, root.ID, &root.ID)
	require.NoError(t, err)

	tree, err := service.GetTeamTree(ctx)
	require.NoError(t, err)

	require.Len(t, tree, 1)
	assert.Equal(t, "Компания", tree[0].Name)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Разработка", tree[0].Children[0].Name)
}

func TestGetTeamLookup_UsesCachedSnapshot(t *testing.T) {
	teamRepo, cacheRepo, service := newTeamFixture()
	ctx := context.Background()

	_, err := teamRepo.Create(ctx, "Компания", uuid.Nil, nil)
	require.NoError(t, err)

	// Первый вызов читает БД и наполняет кеш.
	lookup, err := service.GetTeamLookup(ctx)
	require.NoError(t, err)
	assert.Len(t, lookup, 1)
	assert.NotEmpty(t, cacheRepo.values[TeamSnapshotCacheKey])

	// Новая команда не видна, пока снимок не сброшен.
	_, err = teamRepo.Create(ctx, "Разработка", uuid.Nil, nil)
	require.NoError(t, err)

	lookup, err = service.GetTeamLookup(ctx)
	require.NoError(t, err)
	assert.Len(t, lookup, 1)

	service.InvalidateSnapshot(ctx)

	lookup, err = service.GetTeamLookup(ctx)
	require.NoError(t, err)
	assert.Len(t, lookup, 2)
}

func TestMoveTeam_RejectsSelfParent(t *testing.T) {
	teamRepo, _, service := newTeamFixture()
	ctx := context.Background()

	team, err := teamRepo.Create(ctx, "Разработка", uuid.Nil, nil)
	require.NoError(t, err)

	_, err = service.MoveTeam(ctx, team.ID, &team.ID)
	var invalidInput *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &invalidInput)
}

func TestMoveTeam_RejectsCycle(t *testing.T) {
	teamRepo, _, service := newTeamFixture()
	ctx := context.Background()

	parent, err := teamRepo.Create(ctx, "Родитель", uuid.Nil, nil)
	require.NoError(t, err)
	child, err := teamRepo.Create(ctx, "Ребенок", uuid.Nil, &parent.ID)
	require.NoError(t, err)

	// Родителя нельзя подвесить под собственного потомка.
	_, err = service.MoveTeam(ctx, parent.ID, &child.ID)
	var invalidInput *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &invalidInput)
}

func TestMoveTeam_RejectsNameConflictUnderNewParent(t *testing.T) {
	teamRepo, _, service := newTeamFixture()
	ctx := context.Background()

	root, err := teamRepo.Create(ctx, "Компания", uuid.Nil, nil)
	require.NoError(t, err)
	_, err = teamRepo.Create(ctx, "Разработка", uuid.Nil, &root.ID)
	require.NoError(t, err)
	duplicate, err := teamRepo.Create(ctx, "Разработка", uuid.Nil, nil)
	require.NoError(t, err)

	_, err = service.MoveTeam(ctx, duplicate.ID, &root.ID)
	var invalidInput *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &invalidInput)
}

func TestMoveTeam_MovesAndInvalidatesSnapshot(t *testing.T) {
	teamRepo, cacheRepo, service := newTeamFixture()
	ctx := context.Background()

	root, err := teamRepo.Create(ctx, "Компания", uuid.Nil, nil)
	require.NoError(t, err)
	team, err := teamRepo.Create(ctx, "Разработка", uuid.Nil, nil)
	require.NoError(t, err)

	cacheRepo.values[TeamSnapshotCacheKey] = "[]"

	moved, err := service.MoveTeam(ctx, team.ID, &root.ID)
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, root.ID, *moved.ParentID)

	_, cacheErr := cacheRepo.Get(ctx, TeamSnapshotCacheKey)
	assert.Error(t, cacheErr)
}

func TestMoveTeam_ToRoot(t *testing.T) {
	teamRepo, _, service := newTeamFixture()
	ctx := context.Background()

	root, err := teamRepo.Create(ctx, "Компания", uuid.Nil, nil)
	require.NoError(t, err)
	team, err := teamRepo.Create(ctx, "Разработка", uuid.Nil, &root.ID)
	require.NoError(t, err)

	moved, err := service.MoveTeam(ctx, team.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, moved.ParentID)
}
