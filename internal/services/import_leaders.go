package services

import (
	"context"

	"github.com/google/uuid"

	"staff-portal/internal/repositories"
)

// createdEmployee — учётная карточка сотрудника, созданного в текущем
// прогоне импорта; живёт только до выбора лидеров.
type createdEmployee struct {
	ID              uuid.UUID
	TeamID          uuid.UUID
	ManagerObjectID *string
}

// assignTeamLeaders выбирает лидера для каждой команды, пополнившейся в
// этом прогоне. Эвристика: лидером становится участник, на которого
// ссылается как на руководителя больше всего участников той же команды из
// этого же прогона; при равенстве — встреченный раньше; если внутри команды
// ни одной связи руководства не разрешилось — первый встреченный участник.
func assignTeamLeaders(
	ctx context.Context,
	teamRepo repositories.TeamRepositoryInterface,
	cache *teamCache,
	created map[string]createdEmployee,
	order []string,
) error {
	membersByTeam := make(map[uuid.UUID][]string)
	teamOrder := make([]uuid.UUID, 0)

	for _, objectID := range order {
		info := created[objectID]
		if _, seen := membersByTeam[info.TeamID]; !seen {
			teamOrder = append(teamOrder, info.TeamID)
		}
		membersByTeam[info.TeamID] = append(membersByTeam[info.TeamID], objectID)
	}

	for _, teamID := range teamOrder {
		members := membersByTeam[teamID]

		inTeam := make(map[string]struct{}, len(members))
		for _, objectID := range members {
			inTeam[objectID] = struct{}{}
		}

		managerCounts := make(map[string]int)
		for _, objectID := range members {
			managerObjectID := created[objectID].ManagerObjectID
			if managerObjectID == nil {
				continue
			}
			if _, ok := inTeam[*managerObjectID]; ok {
				managerCounts[*managerObjectID]++
			}
		}

		// Стабильный выбор: обход в порядке появления участников.
		var candidate string
		bestCount := 0
		for _, objectID := range members {
			if count := managerCounts[objectID]; count > bestCount {
				candidate = objectID
				bestCount = count
			}
		}
		if candidate == "" {
			candidate = members[0]
		}

		updatedTeam, err := teamRepo.UpdateLeader(ctx, teamID, created[candidate].ID)
		if err != nil {
			return err
		}
		cache.put(*updatedTeam)
	}

	return nil
}
