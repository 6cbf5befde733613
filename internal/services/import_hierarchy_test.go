package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staff-portal/internal/entities"
)

func TestTeamCache_NormalizationReusesTeam(t *testing.T) {
	teamRepo := &fakeTeamRepo{}
	ctx := context.Background()

	anchor, err := teamRepo.Create(ctx, "Компания", uuid.Nil, nil)
	require.NoError(t, err)
	cache := newTeamCache([]entities.Team{*anchor})

	first, err := cache.getOrCreate(ctx, teamRepo, "Бэкенд", uuid.Nil, &anchor.ID)
	require.NoError(t, err)

	// Крайние пробелы, двойные внутренние и регистр не порождают дубликат.
	second, err := cache.getOrCreate(ctx, teamRepo, "  БЭКЕНД ", uuid.Nil, &anchor.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, teamRepo.teams, 2)
}

func TestTeamCache_HitSkipsRepository(t *testing.T) {
	teamRepo := &fakeTeamRepo{}
	ctx := context.Background()

	anchor, err := teamRepo.Create(ctx, "Компания", uuid.Nil, nil)
	require.NoError(t, err)
	cache := newTeamCache([]entities.Team{*anchor})

	_, err = cache.getOrCreate(ctx, teamRepo, "Разработка", uuid.Nil, &anchor.ID)
	require.NoError(t, err)
	callsAfterFirst := teamRepo.findByNameCalls

	_, err = cache.getOrCreate(ctx, teamRepo, "разработка", uuid.Nil, &anchor.ID)
	require.NoError(t, err)

	assert.Equal(t, callsAfterFirst, teamRepo.findByNameCalls)
}

func TestTeamCache_DoesNotReparentTeamOntoItself(t *testing.T) {
	teamRepo := &fakeTeamRepo{}
	ctx := context.Background()

	anchor, err := teamRepo.Create(ctx, "Acme", uuid.Nil, nil)
	require.NoError(t, err)
	cache := newTeamCache([]entities.Team{*anchor})

	// Юрлицо названо как корневая команда: поиск по имени возвращает сам
	// якорь, и он не должен стать собственным родителем.
	resolved, err := cache.getOrCreate(ctx, teamRepo, "Acme", uuid.Nil, &anchor.ID)
	require.NoError(t, err)

	assert.Equal(t, anchor.ID, resolved.ID)
	assert.Nil(t, resolved.ParentID)

	stored, err := teamRepo.FindByID(ctx, anchor.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ParentID)
}

func TestImportFromAD_LegalEntityNamedLikeAnchorKeepsRoot(t *testing.T) {
	fixture := newImportFixture(t, []entities.DirectoryRecord{
		staffRecord("g1", "ann@stud.local", "Ли Анна", "Компания", "Разработка", ""),
	})

	result, err := fixture.service.ImportFromAD(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	anchor, err := fixture.teamRepo.FindByID(context.Background(), fixture.anchor.ID)
	require.NoError(t, err)
	assert.Nil(t, anchor.ParentID)

	// Отдел создаётся прямо под якорем, без промежуточного дубликата.
	department, err := fixture.teamRepo.FindByNameAndParent(context.Background(), "Разработка", &fixture.anchor.ID)
	require.NoError(t, err)
	require.NotNil(t, department.ParentID)
	assert.Equal(t, fixture.anchor.ID, *department.ParentID)
	assert.Len(t, fixture.teamRepo.teams, 2)
}
