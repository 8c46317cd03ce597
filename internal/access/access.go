// Package access — декларативные права: у каждой роли фиксированный набор возможностей.
package access

import (
	"slices"

	"github.com/Spok95/pool-tracker/internal/models"
)

type Capability string

const (
	PlayQuests   Capability = "play_quests"
	ManageQuests Capability = "manage_quests"
	ManagePoints Capability = "manage_points"
	ViewPoints   Capability = "view_points"
	ManageTeams  Capability = "manage_teams"
	ViewTeams    Capability = "view_teams"
	ViewUsers    Capability = "view_users"
	ChangeRoles  Capability = "change_roles"
)

// ManageRole — право создавать, менять и удалять пользователей с ролью r.
func ManageRole(r models.Role) Capability { return Capability("manage_role:" + string(r)) }

var grants = map[models.Role][]Capability{
	models.Admin: all(),
	models.APE: {
		ManageQuests, ManagePoints, ViewPoints, ViewTeams, ViewUsers,
		ManageRole(models.AER), ManageRole(models.Student),
	},
	models.AER:     {ManageQuests, ManagePoints, ViewPoints, ViewTeams},
	models.Student: {PlayQuests, ViewTeams},
}

func all() []Capability {
	caps := []Capability{PlayQuests, ManageQuests, ManagePoints, ViewPoints, ManageTeams, ViewTeams, ViewUsers, ChangeRoles}
	for _, r := range models.Roles {
		caps = append(caps, ManageRole(r))
	}
	return caps
}

func Can(r models.Role, c Capability) bool {
	return slices.Contains(grants[r], c)
}

// Capabilities — копия набора роли; для неизвестной роли пусто.
func Capabilities(r models.Role) []Capability {
	return slices.Clone(grants[r])
}

// CanManage — может ли actor управлять пользователем с ролью target.
func CanManage(actor, target models.Role) bool {
	return Can(actor, ManageRole(target))
}

// CanChangeRole — смена роли from -> to: нужно change_roles и право на обе роли.
func CanChangeRole(actor, from, to models.Role) bool {
	return Can(actor, ChangeRoles) && CanManage(actor, from) && CanManage(actor, to)
}
