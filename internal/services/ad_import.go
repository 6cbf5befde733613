package services

import (
	"context"

	"go.uber.org/zap"

	"staff-portal/internal/dto"
	"staff-portal/internal/entities"
	"staff-portal/internal/repositories"
	"staff-portal/pkg/config"
	apperrors "staff-portal/pkg/errors"
)

// TeamSnapshotCacheKey — ключ снимка команд в Redis; импорт его сбрасывает.
const TeamSnapshotCacheKey = "teams:snapshot"

type ADImportServiceInterface interface {
	ImportFromAD(ctx context.Context) (*dto.ImportResultDTO, error)
}

// ADImportService сверяет штат с Active Directory: выгрузка каталога,
// нормализация, дедупликация по objectGUID, достройка дерева команд,
// создание сотрудников и выбор лидеров. Запускается как единичная
// административная операция; параллельные прогоны не поддерживаются.
type ADImportService struct {
	directory    DirectoryClientInterface
	employeeRepo repositories.EmployeeRepositoryInterface
	teamRepo     repositories.TeamRepositoryInterface
	positionRepo repositories.PositionRepositoryInterface
	cacheRepo    repositories.CacheRepositoryInterface
	ldapCfg      *config.LDAPConfig
	logger       *zap.Logger
}

func NewADImportService(
	directory DirectoryClientInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	teamRepo repositories.TeamRepositoryInterface,
	positionRepo repositories.PositionRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	ldapCfg *config.LDAPConfig,
	logger *zap.Logger,
) ADImportServiceInterface {
	return &ADImportService{
		directory:    directory,
		employeeRepo: employeeRepo,
		teamRepo:     teamRepo,
		positionRepo: positionRepo,
		cacheRepo:    cacheRepo,
		ldapCfg:      ldapCfg,
		logger:       logger,
	}
}

func (s *ADImportService) ImportFromAD(ctx context.Context) (*dto.ImportResultDTO, error) {
	records, err := s.directory.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		s.logger.Info("[AD_IMPORT] Каталог не вернул ни одной записи")
		return &dto.ImportResultDTO{Imported: 0}, nil
	}

	existingObjectIDs, err := s.employeeRepo.GetObjectIDs(ctx)
	if err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	// Без существующей команды-якоря новых сотрудников некуда привязывать.
	if len(teams) == 0 {
		return nil, apperrors.ErrNoAnchorTeam
	}

	defaultTeam := teams[0]
	defaultLeaderID := defaultTeam.LeaderEmployeeID
	cache := newTeamCache(teams)

	managerLookup := buildManagerLookup(records)

	created := make(map[string]createdEmployee)
	createdOrder := make([]string, 0)
	imported := 0

	for _, record := range records {
		candidate := mapRecord(record, managerLookup, s.ldapCfg.ServiceOUMarker)
		if candidate == nil {
			continue
		}
		if _, exists := existingObjectIDs[candidate.ObjectID]; exists {
			continue
		}

		legalEntityName := defaultTeam.Name
		if candidate.LegalEntity != nil {
			legalEntityName = *candidate.LegalEntity
		}

		companyTeam, err := cache.getOrCreate(ctx, s.teamRepo, legalEntityName, defaultLeaderID, &defaultTeam.ID)
		if err != nil {
			return nil, err
		}

		team := companyTeam
		if candidate.Department != nil {
			team, err = cache.getOrCreate(ctx, s.teamRepo, *candidate.Department, defaultLeaderID, &companyTeam.ID)
			if err != nil {
				return nil, err
			}
		}

		position, err := s.positionRepo.GetOrCreate(ctx, candidate.Position)
		if err != nil {
			return nil, err
		}

		objectID := candidate.ObjectID
		employee, err := s.employeeRepo.Create(ctx, entities.Employee{
			FirstName:   candidate.FirstName,
			MiddleName:  candidate.MiddleName,
			LastName:    candidate.LastName,
			BirthDate:   candidate.BirthDate,
			HireDate:    candidate.HireDate,
			City:        candidate.City,
			Email:       candidate.Email,
			Phone:       candidate.Phone,
			LegalEntity: candidate.LegalEntity,
			Department:  candidate.Department,
			TeamID:      team.ID,
			PositionID:  position.ID,
			ObjectID:    &objectID,
		})
		if err != nil {
			s.logger.Error("[AD_IMPORT] Не удалось создать сотрудника, импорт прерван",
				zap.String("object_id", objectID), zap.String("email", candidate.Email), zap.Error(err))
			return nil, err
		}

		created[objectID] = createdEmployee{
			ID:              employee.ID,
			TeamID:          team.ID,
			ManagerObjectID: candidate.ManagerObjectID,
		}
		createdOrder = append(createdOrder, objectID)
		existingObjectIDs[objectID] = struct{}{}
		imported++
	}

	if err := assignTeamLeaders(ctx, s.teamRepo, cache, created, createdOrder); err != nil {
		return nil, err
	}

	if imported > 0 {
		if err := s.cacheRepo.Del(ctx, TeamSnapshotCacheKey); err != nil {
			s.logger.Warn("[AD_IMPORT] Не удалось сбросить кеш снимка команд", zap.Error(err))
		}
	}

	s.logger.Info("[AD_IMPORT] Импорт завершен", zap.Int("imported", imported))
	return &dto.ImportResultDTO{Imported: imported}, nil
}
