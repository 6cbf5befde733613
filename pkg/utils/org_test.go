package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staff-portal/internal/entities"
)

func team(name string, parentID *uuid.UUID, leaderID uuid.UUID) entities.Team {
	return entities.Team{ID: uuid.New(), Name: name, ParentID: parentID, LeaderEmployeeID: leaderID}
}

func TestBuildFullName(t *testing.T) {
	assert.Equal(t, "Иванов Иван Петрович", BuildFullName(&entities.Employee{
		FirstName: "Иван", MiddleName: "Петрович", LastName: "Иванов",
	}))
	assert.Equal(t, "Иван", BuildFullName(&entities.Employee{FirstName: "Иван"}))
	assert.Equal(t, "", BuildFullName(&entities.Employee{}))
}

func TestBuildShortName(t *testing.T) {
	assert.Equal(t, "Иванов И. П.", BuildShortName(&entities.Employee{
		FirstName: "Иван", MiddleName: "Петрович", LastName: "Иванов",
	}))
	assert.Equal(t, "Иванов И.", BuildShortName(&entities.Employee{
		FirstName: "Иван", LastName: "Иванов",
	}))
	// Первая руна, а не первый байт: кириллица двухбайтовая.
	assert.Equal(t, "Ёлкина Ё.", BuildShortName(&entities.Employee{
		FirstName: "Ёся", LastName: "Ёлкина",
	}))
}

func TestResolveTeamPath_DropsRootName(t *testing.T) {
	root := team("Компания", nil, uuid.Nil)
	department := team("Разработка", &root.ID, uuid.Nil)
	squad := team("Бэкенд", &department.ID, uuid.Nil)
	lookup := BuildTeamLookup([]entities.Team{root, department, squad})

	assert.Equal(t, []string{"Разработка", "Бэкенд"}, ResolveTeamPath(squad.ID, lookup))
	// Сотрудник корневой команды видит её имя: путь из одного звена не режется.
	assert.Equal(t, []string{"Компания"}, ResolveTeamPath(root.ID, lookup))
}

func TestResolveTeamPath_SurvivesCycle(t *testing.T) {
	a := team("A", nil, uuid.Nil)
	b := team("B", &a.ID, uuid.Nil)
	a.ParentID = &b.ID // цикл A <-> B
	lookup := BuildTeamLookup([]entities.Team{a, b})

	path := ResolveTeamPath(b.ID, lookup)
	assert.Len(t, path, 1)
}

func TestResolveTeamPath_UnknownTeam(t *testing.T) {
	assert.Empty(t, ResolveTeamPath(uuid.New(), map[uuid.UUID]entities.Team{}))
}

func TestResolveBossID_ClimbsChain(t *testing.T) {
	bigBoss := uuid.New()
	employee := uuid.New()

	root := team("Компания", nil, bigBoss)
	department := team("Разработка", &root.ID, employee)
	lookup := BuildTeamLookup([]entities.Team{root, department})

	// Лидер своей команды — начальник для остальных...
	other := uuid.New()
	got := ResolveBossID(other, department.ID, lookup)
	require.NotNil(t, got)
	assert.Equal(t, employee, *got)

	// ...а для самого лидера начальник ищется выше по цепочке.
	got = ResolveBossID(employee, department.ID, lookup)
	require.NotNil(t, got)
	assert.Equal(t, bigBoss, *got)

	// Лидер корня без вышестоящих начальника не имеет.
	assert.Nil(t, ResolveBossID(bigBoss, root.ID, BuildTeamLookup([]entities.Team{{ID: root.ID, Name: root.Name, LeaderEmployeeID: bigBoss}})))
}

func TestResolveBossID_SkipsUnsetLeader(t *testing.T) {
	boss := uuid.New()
	root := team("Компания", nil, boss)
	department := team("Разработка", &root.ID, uuid.Nil)
	lookup := BuildTeamLookup([]entities.Team{root, department})

	got := ResolveBossID(uuid.New(), department.ID, lookup)
	require.NotNil(t, got)
	assert.Equal(t, boss, *got)
}

func TestResolveGrade(t *testing.T) {
	cases := map[string]string{
		"Senior Developer":   "Senior",
		"junior qa engineer": "Junior",
		"Middle Backend":     "Middle",
		"Lead Designer":      "Lead",
		"Team Lead":          "Team Lead",
		"team lead разработки": "Team Lead",
		"Бухгалтер":          "",
		"":                   "",
		"Developer Senior":   "", // грейд распознаётся только в начале названия
	}
	for title, want := range cases {
		assert.Equal(t, want, ResolveGrade(title), "title=%q", title)
	}
}

func TestResolveExperience(t *testing.T) {
	assert.Equal(t, 10, ResolveExperience(time.Now().AddDate(0, 0, -10)))
	assert.Equal(t, 0, ResolveExperience(time.Now().AddDate(0, 0, 5)))
	assert.Equal(t, 0, ResolveExperience(time.Time{}))
}

func TestResolveStatus(t *testing.T) {
	now := time.Now()
	ended := now.Add(-time.Hour)

	open := entities.StatusHistory{Status: entities.StatusVacation, StartedAt: now.Add(-2 * time.Hour)}
	closed := entities.StatusHistory{Status: entities.StatusSickLeave, StartedAt: now.Add(-24 * time.Hour), EndedAt: &ended}

	// Открытая запись побеждает независимо от порядка.
	assert.Equal(t, entities.StatusVacation, ResolveStatus([]entities.StatusHistory{closed, open}))

	// Без открытых — самая поздняя по началу.
	older := entities.StatusHistory{Status: entities.StatusVacation, StartedAt: now.Add(-48 * time.Hour), EndedAt: &ended}
	assert.Equal(t, entities.StatusSickLeave, ResolveStatus([]entities.StatusHistory{older, closed}))

	// Пустая история — active.
	assert.Equal(t, entities.StatusActive, ResolveStatus(nil))
}
