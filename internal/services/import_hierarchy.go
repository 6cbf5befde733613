package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"staff-portal/internal/entities"
	"staff-portal/internal/repositories"
	apperrors "staff-portal/pkg/errors"
)

// teamCache — кеш команд на один прогон импорта, ключ — нормализованная
// пара (имя, родитель). Не потокобезопасен: детали иерархии пишутся
// строго последовательно.
type teamCache struct {
	byKey map[string]entities.Team
}

func newTeamCache(teams []entities.Team) *teamCache {
	cache := &teamCache{byKey: make(map[string]entities.Team, len(teams))}
	for _, team := range teams {
		cache.put(team)
	}
	return cache
}

// normalizeTeamName обрезает крайние пробелы и схлопывает внутренние серии
// пробелов: внешние каталоги непоследовательны в написании имён подразделений.
func normalizeTeamName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func teamCacheKey(name string, parentID *uuid.UUID) string {
	key := strings.ToLower(normalizeTeamName(name)) + "|"
	if parentID != nil {
		key += parentID.String()
	}
	return key
}

func (c *teamCache) put(team entities.Team) {
	c.byKey[teamCacheKey(team.Name, team.ParentID)] = team
}

func (c *teamCache) get(name string, parentID *uuid.UUID) (entities.Team, bool) {
	team, ok := c.byKey[teamCacheKey(name, parentID)]
	return team, ok
}

// getOrCreate разрешает пару (имя, родитель) в команду: из кеша, из
// хранилища или созданием новой. Если команда нашлась под другим родителем,
// её родитель исправляется — при импорте каталог авторитетен для структуры.
func (c *teamCache) getOrCreate(
	ctx context.Context,
	teamRepo repositories.TeamRepositoryInterface,
	name string,
	leaderEmployeeID uuid.UUID,
	parentID *uuid.UUID,
) (*entities.Team, error) {
	normalized := normalizeTeamName(name)
	if normalized == "" {
		return nil, apperrors.NewInvalidInputError("имя команды не может быть пустым")
	}

	if cached, ok := c.get(normalized, parentID); ok {
		return &cached, nil
	}

	existing, err := teamRepo.FindByNameAndParent(ctx, normalized, parentID)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		existing, err = teamRepo.Create(ctx, normalized, leaderEmployeeID, parentID)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case parentID != nil && existing.ID == *parentID:
		// Имя разрешилось в сам предполагаемый родитель (юрлицо названо
		// как корневая команда) — перевешивать нельзя, команда и есть узел.
	case !uuidPtrEqual(existing.ParentID, parentID):
		existing, err = teamRepo.UpdateParent(ctx, existing.ID, parentID)
		if err != nil {
			return nil, err
		}
	}

	c.put(*existing)
	return existing, nil
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
