// Package authz holds the role registry, the permission predicate consulted
// before every mutating operation, and the scope filter that restricts reads
// and writes to the caller's assigned rank.
package authz

import (
	"github.com/GiftHanong/taxihub/models"
	"github.com/google/uuid"
)

// Action is a permission tag guarding an operation
type Action string

const (
	ActionView           Action = "view"
	ActionApproveUsers   Action = "approve_users"
	ActionAssignRoles    Action = "assign_roles"
	ActionManageUsers    Action = "manage_users"
	ActionViewReports    Action = "view_reports"
	ActionSystemSettings Action = "system_settings"
	ActionAddRanks       Action = "add_ranks"
	ActionAddTaxis       Action = "add_taxis"
	ActionRecordLoads    Action = "record_loads"
	ActionRecordPayments Action = "record_payments"
	ActionManageMeetings Action = "manage_meetings"

	// ActionAll is a sentinel that satisfies every permission check
	ActionAll Action = "all"
)

// rolePermissions is the canonical role registry. There is exactly one
// permission model: the role string on the profile, resolved through this
// table. Profiles carry no permission lists of their own.
var rolePermissions = map[models.Role][]Action{
	models.RoleAdmin: {ActionAll},
	models.RoleSupervisor: {
		ActionView,
		ActionViewReports,
	},
	models.RoleMarshal: {
		ActionView,
		ActionAddTaxis,
		ActionRecordLoads,
		ActionRecordPayments,
		ActionManageMeetings,
	},
}

// PermissionsFor returns the permitted actions for a role. Unknown or
// unassigned roles get an empty set.
func PermissionsFor(role models.Role) []Action {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]Action, len(perms))
	copy(out, perms)
	return out
}

// HasPermission reports whether the profile may perform the action.
// A nil profile is denied everything; the "all" sentinel grants everything.
func HasPermission(profile *models.Marshal, action Action) bool {
	if profile == nil {
		return false
	}
	for _, a := range rolePermissions[profile.Role] {
		if a == ActionAll || a == action {
			return true
		}
	}
	return false
}

// ScopeKind selects how a query is restricted
type ScopeKind int

const (
	// ScopeAll places no restriction on the query
	ScopeAll ScopeKind = iota

	// ScopeRank restricts the query to a single rank
	ScopeRank

	// ScopeNone matches nothing. Fail-closed default for supervisors and
	// marshals that have no rank assigned.
	ScopeNone
)

// Scope describes the data visibility of a resolved profile
type Scope struct {
	Kind   ScopeKind
	RankID uuid.UUID
}

// ScopeFor derives the data scope for a profile. Admins see everything;
// supervisors and marshals see their own rank, or nothing while unassigned.
func ScopeFor(profile *models.Marshal) Scope {
	if profile == nil {
		return Scope{Kind: ScopeNone}
	}
	switch profile.Role {
	case models.RoleAdmin:
		return Scope{Kind: ScopeAll}
	case models.RoleSupervisor, models.RoleMarshal:
		if profile.RankID == nil {
			return Scope{Kind: ScopeNone}
		}
		return Scope{Kind: ScopeRank, RankID: *profile.RankID}
	default:
		return Scope{Kind: ScopeNone}
	}
}

// AllowsRank reports whether the scope permits touching records of the rank
func (s Scope) AllowsRank(rankID uuid.UUID) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeRank:
		return s.RankID == rankID
	default:
		return false
	}
}
