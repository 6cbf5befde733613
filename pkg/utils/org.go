package utils

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"staff-portal/internal/entities"
)

// Утилиты разрешения оргструктуры. Все функции чистые и работают над
// снимком команд (id -> Team), построенным на один запрос. Обходы по
// parent_id защищены множеством посещённых узлов: повторная встреча узла
// завершает путь, а не роняет запрос — в хранилище могут жить циклы.

func BuildFullName(e *entities.Employee) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{e.LastName, e.FirstName, e.MiddleName} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func BuildShortName(e *entities.Employee) string {
	initials := make([]string, 0, 2)
	if e.FirstName != "" {
		initials = append(initials, string([]rune(e.FirstName)[:1])+".")
	}
	if e.MiddleName != "" {
		initials = append(initials, string([]rune(e.MiddleName)[:1])+".")
	}
	return strings.TrimSpace(e.LastName + " " + strings.Join(initials, " "))
}

func BuildTeamLookup(teams []entities.Team) map[uuid.UUID]entities.Team {
	lookup := make(map[uuid.UUID]entities.Team, len(teams))
	for _, team := range teams {
		lookup[team.ID] = team
	}
	return lookup
}

// CollectTeamPath собирает цепочку команд от листа к корню.
func CollectTeamPath(teamID uuid.UUID, lookup map[uuid.UUID]entities.Team) []entities.Team {
	path := []entities.Team{}
	visited := map[uuid.UUID]struct{}{}

	current, ok := lookup[teamID]
	for ok {
		if _, seen := visited[current.ID]; seen {
			break
		}
		path = append(path, current)
		visited[current.ID] = struct{}{}

		if current.ParentID == nil {
			break
		}
		current, ok = lookup[*current.ParentID]
	}
	return path
}

// ResolveTeamPath возвращает имена команд от корня к команде сотрудника.
// Имя корня (уровень компании) в отображаемом пути опускается, если путь
// длиннее одного элемента.
func ResolveTeamPath(teamID uuid.UUID, lookup map[uuid.UUID]entities.Team) []string {
	path := CollectTeamPath(teamID, lookup)

	names := make([]string, 0, len(path))
	for i := len(path) - 1; i >= 0; i-- {
		if path[i].Name != "" {
			names = append(names, path[i].Name)
		}
	}
	if len(names) > 1 {
		return names[1:]
	}
	return names
}

// ResolveBossID идёт по цепочке команд вверх и возвращает первого лидера,
// не совпадающего с самим сотрудником. Лидер собственной команды без
// вышестоящего лидера начальника не имеет.
func ResolveBossID(employeeID, teamID uuid.UUID, lookup map[uuid.UUID]entities.Team) *uuid.UUID {
	for _, team := range CollectTeamPath(teamID, lookup) {
		if team.LeaderEmployeeID != uuid.Nil && team.LeaderEmployeeID != employeeID {
			leaderID := team.LeaderEmployeeID
			return &leaderID
		}
	}
	return nil
}

// ResolveGrade выводит грейд из названия должности по префиксу.
// "team lead" имеет приоритет над "lead".
func ResolveGrade(positionTitle string) string {
	if positionTitle == "" {
		return ""
	}
	lowerTitle := strings.ToLower(positionTitle)

	if strings.HasPrefix(lowerTitle, "team lead") {
		return "Team Lead"
	}
	for _, keyword := range []string{"junior", "middle", "senior", "lead"} {
		if strings.HasPrefix(lowerTitle, keyword) {
			return strings.ToUpper(keyword[:1]) + keyword[1:]
		}
	}
	return ""
}

// ResolveExperience — стаж в целых днях; дата найма в будущем даёт 0.
func ResolveExperience(hireDate time.Time) int {
	if hireDate.IsZero() {
		return 0
	}
	days := int(time.Since(hireDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// ResolveStatus — открытая запись истории, иначе самая поздняя по началу,
// иначе active.
func ResolveStatus(history []entities.StatusHistory) string {
	for _, record := range history {
		if record.EndedAt == nil && record.Status != "" {
			return record.Status
		}
	}

	if len(history) > 0 {
		recent := make([]entities.StatusHistory, len(history))
		copy(recent, history)
		sort.SliceStable(recent, func(i, j int) bool {
			return recent[i].StartedAt.After(recent[j].StartedAt)
		})
		if recent[0].Status != "" {
			return recent[0].Status
		}
	}

	return entities.StatusActive
}
