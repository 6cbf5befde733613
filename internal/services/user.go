package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"staff-portal/internal/dto"
	"staff-portal/internal/entities"
	"staff-portal/internal/repositories"
	apperrors "staff-portal/pkg/errors"
	"staff-portal/pkg/utils"
)

type UserServiceInterface interface {
	ListUsers(ctx context.Context, search string) ([]dto.UserDTO, uint64, error)
	GetUser(ctx context.Context, id uuid.UUID) (*dto.UserDTO, error)
	GetMe(ctx context.Context) (*dto.UserDTO, error)
	UpdateMe(ctx context.Context, upd dto.UpdateMeDTO) (*dto.UserDTO, error)
	UpdateUser(ctx context.Context, id uuid.UUID, upd dto.AdminUpdateUserDTO) (*dto.UserDTO, error)
	CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type UserService struct {
	employeeRepo repositories.EmployeeRepositoryInterface
	teamRepo     repositories.TeamRepositoryInterface
	positionRepo repositories.PositionRepositoryInterface
	userRepo     repositories.UserRepositoryInterface
	statusRepo   repositories.StatusHistoryRepositoryInterface
	teamService  TeamServiceInterface
	logger       *zap.Logger
}

func NewUserService(
	employeeRepo repositories.EmployeeRepositoryInterface,
	teamRepo repositories.TeamRepositoryInterface,
	positionRepo repositories.PositionRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	statusRepo repositories.StatusHistoryRepositoryInterface,
	teamService TeamServiceInterface,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{
		employeeRepo: employeeRepo,
		teamRepo:     teamRepo,
		positionRepo: positionRepo,
		userRepo:     userRepo,
		statusRepo:   statusRepo,
		teamService:  teamService,
		logger:       logger,
	}
}

// buildUserDTO собирает плоский профиль: путь по командам, начальник,
// грейд, стаж и текущий статус разрешаются здесь.
func (s *UserService) buildUserDTO(
	employee *entities.Employee,
	history []entities.StatusHistory,
	lookup map[uuid.UUID]entities.Team,
	positionTitle string,
	boss *entities.Employee,
	isAdmin bool,
) *dto.UserDTO {
	var bossDTO *dto.BossDTO
	if boss != nil {
		bossDTO = &dto.BossDTO{
			ID:       boss.ID,
			FullName: utils.BuildFullName(boss),
			Email:    boss.Email,
		}
	}

	return &dto.UserDTO{
		ID:             employee.ID,
		FirstName:      employee.FirstName,
		MiddleName:     employee.MiddleName,
		LastName:       employee.LastName,
		FullName:       utils.BuildFullName(employee),
		ShortName:      utils.BuildShortName(employee),
		Email:          employee.Email,
		Phone:          employee.Phone,
		City:           employee.City,
		Mattermost:     employee.Mattermost,
		Tg:             employee.Tg,
		AboutMe:        employee.AboutMe,
		BirthDate:      employee.BirthDate.Format("2006-01-02"),
		HireDate:       employee.HireDate.Format("2006-01-02"),
		ExperienceDays: utils.ResolveExperience(employee.HireDate),
		Status:         utils.ResolveStatus(history),
		Position:       positionTitle,
		Grade:          utils.ResolveGrade(positionTitle),
		Team:           utils.ResolveTeamPath(employee.TeamID, lookup),
		Boss:           bossDTO,
		IsAdmin:        isAdmin,
	}
}

func (s *UserService) ListUsers(ctx context.Context, search string) ([]dto.UserDTO, uint64, error) {
	employees, total, err := s.employeeRepo.GetEmployees(ctx, search)
	if err != nil {
		return nil, 0, err
	}

	lookup, err := s.teamService.GetTeamLookup(ctx)
	if err != nil {
		return nil, 0, err
	}

	positions, err := s.positionRepo.GetAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	titleByID := make(map[uuid.UUID]string, len(positions))
	for _, position := range positions {
		titleByID[position.ID] = position.Title
	}

	employeeIDs := make([]uuid.UUID, 0, len(employees))
	employeesByID := make(map[uuid.UUID]entities.Employee, len(employees))
	for _, employee := range employees {
		employeeIDs = append(employeeIDs, employee.ID)
		employeesByID[employee.ID] = employee
	}

	historyByEmployee, err := s.statusRepo.GetByEmployeeIDs(ctx, employeeIDs)
	if err != nil {
		return nil, 0, err
	}

	adminEmails, err := s.userRepo.GetAdminEmails(ctx)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.UserDTO, 0, len(employees))
	for i := range employees {
		employee := employees[i]

		// Начальник может не попасть в выборку поиска — тогда дочитываем его
		// отдельно и запоминаем на остаток прохода.
		var boss *entities.Employee
		if bossID := utils.ResolveBossID(employee.ID, employee.TeamID, lookup); bossID != nil {
			if bossEmployee, ok := employeesByID[*bossID]; ok {
				boss = &bossEmployee
			} else if fetched, err := s.employeeRepo.FindByID(ctx, *bossID); err == nil {
				employeesByID[*bossID] = *fetched
				boss = fetched
			}
		}

		_, isAdmin := adminEmails[strings.ToLower(employee.Email)]
		result = append(result, *s.buildUserDTO(
			&employee,
			historyByEmployee[employee.ID],
			lookup,
			titleByID[employee.PositionID],
			boss,
			isAdmin,
		))
	}
	return result, total, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*dto.UserDTO, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.resolveProfile(ctx, employee)
}

func (s *UserService) GetMe(ctx context.Context) (*dto.UserDTO, error) {
	employee, _, err := s.currentEmployee(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolveProfile(ctx, employee)
}

func (s *UserService) UpdateMe(ctx context.Context, upd dto.UpdateMeDTO) (*dto.UserDTO, error) {
	employee, _, err := s.currentEmployee(ctx)
	if err != nil {
		return nil, err
	}

	employee, err = s.employeeRepo.UpdateProfile(ctx, employee.ID, upd)
	if err != nil {
		return nil, err
	}

	if upd.Status != nil {
		if err := s.statusRepo.SetStatus(ctx, employee.ID, *upd.Status); err != nil {
			return nil, err
		}
	}

	return s.resolveProfile(ctx, employee)
}

func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, upd dto.AdminUpdateUserDTO) (*dto.UserDTO, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	originalEmail := employee.Email

	var positionID *uuid.UUID
	if upd.Position != nil {
		position, err := s.positionRepo.GetOrCreate(ctx, *upd.Position)
		if err != nil {
			return nil, err
		}
		positionID = &position.ID
	}

	var teamID *uuid.UUID
	if len(upd.Team) > 0 {
		resolved, err := s.resolveTeamID(ctx, employee, upd.Team)
		if err != nil {
			return nil, err
		}
		teamID = resolved
		s.teamService.InvalidateSnapshot(ctx)
	}

	employee, err = s.employeeRepo.UpdatePartial(ctx, id, upd, teamID, positionID)
	if err != nil {
		return nil, err
	}

	if upd.Status != nil {
		if err := s.statusRepo.SetStatus(ctx, employee.ID, *upd.Status); err != nil {
			return nil, err
		}
	}

	// Смена почты сотрудника тянет за собой учётную запись для входа.
	if upd.Email.Valid && !strings.EqualFold(originalEmail, upd.Email.String) {
		if err := s.userRepo.UpdateEmailByEmail(ctx, originalEmail, upd.Email.String); err != nil {
			return nil, err
		}
	}

	return s.resolveProfile(ctx, employee)
}

func (s *UserService) CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error) {
	if _, err := s.userRepo.FindByEmail(ctx, payload.Email); err == nil {
		return nil, apperrors.ErrEmailTaken
	}
	if _, err := s.employeeRepo.FindByEmail(ctx, payload.Email); err == nil {
		return nil, apperrors.ErrEmailTaken
	}

	birthDate, err := time.Parse("2006-01-02", payload.BirthDate)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("неверный формат даты рождения: %s", payload.BirthDate)
	}
	hireDate, err := time.Parse("2006-01-02", payload.HireDate)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("неверный формат даты найма: %s", payload.HireDate)
	}

	teamName := normalizeTeamName(payload.Team)
	if teamName == "" {
		return nil, apperrors.NewInvalidInputError("имя команды не может быть пустым")
	}

	passwordHash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	position, err := s.positionRepo.GetOrCreate(ctx, payload.Position)
	if err != nil {
		return nil, err
	}

	team, err := s.teamRepo.FindByNameAndParent(ctx, teamName, nil)
	if errors.Is(err, apperrors.ErrNotFound) {
		// Новая корневая команда создаётся с создателем в роли лидера.
		creator, _, creatorErr := s.currentEmployee(ctx)
		if creatorErr != nil {
			return nil, apperrors.NewInvalidInputError("не найдена карточка сотрудника для создателя команды")
		}
		team, err = s.teamRepo.Create(ctx, teamName, creator.ID, nil)
		if err != nil {
			return nil, err
		}
		s.teamService.InvalidateSnapshot(ctx)
	} else if err != nil {
		return nil, err
	}

	employee, err := s.employeeRepo.Create(ctx, entities.Employee{
		FirstName:  payload.FirstName,
		MiddleName: payload.MiddleName,
		LastName:   payload.LastName,
		BirthDate:  birthDate,
		HireDate:   hireDate,
		City:       payload.City,
		Email:      payload.Email,
		Phone:      payload.Phone,
		TeamID:     team.ID,
		PositionID: position.ID,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.Create(ctx, entities.User{
		Email:        payload.Email,
		PasswordHash: passwordHash,
		IsAdmin:      payload.Role == "admin",
	}); err != nil {
		return nil, err
	}

	return s.resolveProfile(ctx, employee)
}

// DeleteUser удаляет сотрудника вместе с учётной записью. Лидера нельзя
// удалить, пока в его команде есть другие сотрудники или в дочерних
// командах кто-то числится — иначе иерархия остаётся без начальника.
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	team, err := s.teamRepo.FindByID(ctx, employee.TeamID)
	if err != nil {
		return err
	}

	if team.LeaderEmployeeID == employee.ID {
		teamMembers, err := s.employeeRepo.GetByTeamID(ctx, team.ID)
		if err != nil {
			return err
		}
		for _, member := range teamMembers {
			if member.ID != employee.ID {
				return apperrors.NewInvalidInputError(
					"нельзя удалить сотрудника '%s': он лидер команды '%s', и в его команде еще есть сотрудники",
					employee.ID, team.Name)
			}
		}

		hasBelow, err := s.hasEmployeesInTeamsBelow(ctx, team.ID, map[uuid.UUID]struct{}{team.ID: {}})
		if err != nil {
			return err
		}
		if hasBelow {
			return apperrors.NewInvalidInputError(
				"нельзя удалить сотрудника '%s': в дочерних командах еще есть сотрудники", employee.ID)
		}
	}

	if err := s.userRepo.DeleteByEmail(ctx, employee.Email); err != nil {
		return err
	}
	return s.employeeRepo.Delete(ctx, employee.ID)
}

func (s *UserService) currentEmployee(ctx context.Context) (*entities.Employee, *entities.User, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, apperrors.ErrUserNotFound
	}
	employee, err := s.employeeRepo.FindByEmail(ctx, user.Email)
	if err != nil {
		return nil, nil, err
	}
	return employee, user, nil
}

func (s *UserService) resolveProfile(ctx context.Context, employee *entities.Employee) (*dto.UserDTO, error) {
	lookup, err := s.teamService.GetTeamLookup(ctx)
	if err != nil {
		return nil, err
	}

	history, err := s.statusRepo.GetByEmployeeID(ctx, employee.ID)
	if err != nil {
		return nil, err
	}

	positionTitle := ""
	if position, err := s.positionRepo.FindByID(ctx, employee.PositionID); err == nil {
		positionTitle = position.Title
	}

	var boss *entities.Employee
	if bossID := utils.ResolveBossID(employee.ID, employee.TeamID, lookup); bossID != nil {
		if bossEmployee, err := s.employeeRepo.FindByID(ctx, *bossID); err == nil {
			boss = bossEmployee
		}
	}

	isAdmin := false
	if user, err := s.userRepo.FindByEmail(ctx, employee.Email); err == nil {
		isAdmin = user.IsAdmin
	}

	return s.buildUserDTO(employee, history, lookup, positionTitle, boss, isAdmin), nil
}

// resolveTeamID проверяет и разрешает цепочку имён команд сверху вниз.
// Допустимы два случая: все команды существуют и идут в иерархическом
// порядке, либо отсутствует только последняя — тогда она создаётся под
// предпоследней с сотрудником в роли лидера.
func (s *UserService) resolveTeamID(ctx context.Context, employee *entities.Employee, teamNames []string) (*uuid.UUID, error) {
	var parentTeam *entities.Team

	for i, rawName := range teamNames {
		name := normalizeTeamName(rawName)
		if name == "" {
			return nil, apperrors.NewInvalidInputError("имя команды не может быть пустым")
		}

		var parentID *uuid.UUID
		if parentTeam != nil {
			parentID = &parentTeam.ID
		}

		team, err := s.teamRepo.FindByNameAndParent(ctx, name, parentID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			if i != len(teamNames)-1 {
				return nil, apperrors.NewInvalidInputError("команда '%s' не найдена", name)
			}
			team, err = s.teamRepo.Create(ctx, name, employee.ID, parentID)
			if err != nil {
				return nil, err
			}
		case err != nil:
			return nil, err
		default:
			if i != 0 && !uuidPtrEqual(team.ParentID, parentID) {
				return nil, apperrors.NewInvalidInputError(
					"команда '%s' не является родителем команды '%s'", parentTeam.Name, team.Name)
			}
		}

		parentTeam = team
	}

	if parentTeam == nil {
		return nil, apperrors.NewInvalidInputError("список команд не может быть пустым")
	}
	return &parentTeam.ID, nil
}

func (s *UserService) hasEmployeesInTeamsBelow(ctx context.Context, teamID uuid.UUID, visited map[uuid.UUID]struct{}) (bool, error) {
	children, err := s.teamRepo.FindByParentID(ctx, teamID)
	if err != nil {
		return false, err
	}

	for _, child := range children {
		if _, seen := visited[child.ID]; seen {
			continue
		}
		visited[child.ID] = struct{}{}

		members, err := s.employeeRepo.GetByTeamID(ctx, child.ID)
		if err != nil {
			return false, err
		}
		if len(members) > 0 {
			return true, nil
		}

		hasBelow, err := s.hasEmployeesInTeamsBelow(ctx, child.ID, visited)
		if err != nil {
			return false, err
		}
		if hasBelow {
			return true, nil
		}
	}
	return false, nil
}
