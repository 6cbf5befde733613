package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"staff-portal/internal/dto"
	"staff-portal/internal/entities"
	"staff-portal/internal/repositories"
	apperrors "staff-portal/pkg/errors"
	"staff-portal/pkg/utils"
)

type TeamServiceInterface interface {
	GetTeams(ctx context.Context) ([]dto.TeamDTO, error)
	GetTeamTree(ctx context.Context) ([]*dto.TeamTreeDTO, error)
	GetTeamLookup(ctx context.Context) (map[uuid.UUID]entities.Team, error)
	MoveTeam(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) (*dto.TeamDTO, error)
	InvalidateSnapshot(ctx context.Context)
}

type TeamService struct {
	teamRepo  repositories.TeamRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	cacheTTL  time.Duration
	logger    *zap.Logger
}

func NewTeamService(
	teamRepo repositories.TeamRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) TeamServiceInterface {
	return &TeamService{teamRepo: teamRepo, cacheRepo: cacheRepo, cacheTTL: cacheTTL, logger: logger}
}

func teamToDTO(team entities.Team) dto.TeamDTO {
	return dto.TeamDTO{
		ID:               team.ID,
		Name:             team.Name,
		ParentID:         team.ParentID,
		LeaderEmployeeID: team.LeaderEmployeeID,
	}
}

func (s *TeamService) GetTeams(ctx context.Context) ([]dto.TeamDTO, error) {
	teams, err := s.teamRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.TeamDTO, 0, len(teams))
	for _, team := range teams {
		result = append(result, teamToDTO(team))
	}
	return result, nil
}

// GetTeamTree строит дерево команд. Узел, зацикленный сам на себя через
// parent_id, считается корнем; обход защищён от повторного посещения.
func (s *TeamService) GetTeamTree(ctx context.Context) ([]*dto.TeamTreeDTO, error) {
	teams, err := s.teamRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	lookup := utils.BuildTeamLookup(teams)
	childrenByParent := make(map[uuid.UUID][]entities.Team)
	roots := make([]entities.Team, 0)

	for _, team := range teams {
		if team.ParentID == nil || *team.ParentID == team.ID {
			roots = append(roots, team)
			continue
		}
		if _, ok := lookup[*team.ParentID]; !ok {
			// Осиротевший узел показываем как корень, а не теряем.
			roots = append(roots, team)
			continue
		}
		childrenByParent[*team.ParentID] = append(childrenByParent[*team.ParentID], team)
	}

	visited := make(map[uuid.UUID]struct{}, len(teams))
	var buildNode func(team entities.Team) *dto.TeamTreeDTO
	buildNode = func(team entities.Team) *dto.TeamTreeDTO {
		if _, seen := visited[team.ID]; seen {
			return nil
		}
		visited[team.ID] = struct{}{}

		node := &dto.TeamTreeDTO{TeamDTO: teamToDTO(team), Children: []*dto.TeamTreeDTO{}}
		for _, child := range childrenByParent[team.ID] {
			if childNode := buildNode(child); childNode != nil {
				node.Children = append(node.Children, childNode)
			}
		}
		return node
	}

	tree := make([]*dto.TeamTreeDTO, 0, len(roots))
	for _, root := range roots {
		if node := buildNode(root); node != nil {
			tree = append(tree, node)
		}
	}
	return tree, nil
}

// GetTeamLookup отдаёт снимок всех команд для разрешения оргструктуры на
// читающих запросах. Снимок кешируется в Redis; промах кеша не фатален.
func (s *TeamService) GetTeamLookup(ctx context.Context) (map[uuid.UUID]entities.Team, error) {
	if cached, err := s.cacheRepo.Get(ctx, TeamSnapshotCacheKey); err == nil && cached != "" {
		var teams []entities.Team
		if err := json.Unmarshal([]byte(cached), &teams); err == nil {
			return utils.BuildTeamLookup(teams), nil
		}
		s.logger.Warn("Снимок команд в кеше повреждён, читаем из БД")
	}

	teams, err := s.teamRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(teams); err == nil {
		if err := s.cacheRepo.Set(ctx, TeamSnapshotCacheKey, string(payload), s.cacheTTL); err != nil {
			s.logger.Warn("Не удалось сохранить снимок команд в кеш", zap.Error(err))
		}
	}

	return utils.BuildTeamLookup(teams), nil
}

// MoveTeam — административный перенос команды под нового родителя. В
// отличие от импорта, конфликт имени под новым родителем — ошибка
// валидации, а не молчаливое исправление.
func (s *TeamService) MoveTeam(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) (*dto.TeamDTO, error) {
	team, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		if *parentID == id {
			return nil, apperrors.NewInvalidInputError("команда '%s' не может быть родителем самой себя", team.Name)
		}
		if _, err := s.teamRepo.FindByID(ctx, *parentID); err != nil {
			return nil, apperrors.NewInvalidInputError("родительская команда не найдена")
		}

		teams, err := s.teamRepo.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		lookup := utils.BuildTeamLookup(teams)
		for _, ancestor := range utils.CollectTeamPath(*parentID, lookup) {
			if ancestor.ID == id {
				return nil, apperrors.NewInvalidInputError("перенос команды '%s' создал бы цикл в иерархии", team.Name)
			}
		}

		existing, err := s.teamRepo.FindByNameAndParent(ctx, team.Name, parentID)
		if err == nil && existing.ID != id && uuidPtrEqual(existing.ParentID, parentID) {
			return nil, apperrors.NewInvalidInputError("команда '%s' уже существует под выбранным родителем", team.Name)
		}
	}

	updated, err := s.teamRepo.UpdateParent(ctx, id, parentID)
	if err != nil {
		return nil, err
	}

	s.InvalidateSnapshot(ctx)

	result := teamToDTO(*updated)
	return &result, nil
}

func (s *TeamService) InvalidateSnapshot(ctx context.Context) {
	if err := s.cacheRepo.Del(ctx, TeamSnapshotCacheKey); err != nil {
		s.logger.Warn("Не удалось сбросить кеш снимка команд", zap.Error(err))
	}
}
