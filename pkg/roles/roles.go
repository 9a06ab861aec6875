// Package roles encodes the club's role hierarchy and gates privileged
// actions such as role changes and member removal.
package roles

// Role is one of the club's four privilege tiers.
type Role string

const (
	RoleMember   Role = "member"
	RoleOfficer  Role = "officer"
	RoleCoLeader Role = "co_leader"
	RoleLeader   Role = "leader"
)

// MaxCoLeaders caps the number of co-leaders a club may have.
const MaxCoLeaders = 2

// roleRank is the strict total order over tiers.
var roleRank = map[Role]int{
	RoleMember:   0,
	RoleOfficer:  1,
	RoleCoLeader: 2,
	RoleLeader:   3,
}

// Permissions is the derived permission set for a role. It is recomputed on
// demand, never stored.
type Permissions struct {
	CanManageMatches   bool `json:"can_manage_matches"`
	CanManageMembers   bool `json:"can_manage_members"`
	CanManageOfficers  bool `json:"can_manage_officers"`
	CanManageCoLeaders bool `json:"can_manage_co_leaders"`
	CanManageSettings  bool `json:"can_manage_settings"`
	CanDeleteClub      bool `json:"can_delete_club"`
}

var rolePermissions = map[Role]Permissions{
	RoleMember: {},
	RoleOfficer: {
		CanManageMatches: true,
		CanManageMembers: true,
	},
	RoleCoLeader: {
		CanManageMatches:  true,
		CanManageMembers:  true,
		CanManageOfficers: true,
		CanManageSettings: true,
	},
	RoleLeader: {
		CanManageMatches:   true,
		CanManageMembers:   true,
		CanManageOfficers:  true,
		CanManageCoLeaders: true,
		CanManageSettings:  true,
		CanDeleteClub:      true,
	},
}

// Verdict is the outcome of a role-change or removal check. A failed check is
// a business result, not a fault; Error carries the first failing condition's
// message.
type Verdict struct {
	IsValid bool
	Error   string
}

// IsValidRole reports whether s names a known tier.
func IsValidRole(s string) bool {
	_, ok := roleRank[Role(s)]
	return ok
}

// Rank returns the position of a role in the hierarchy. Unknown roles rank
// below member.
func Rank(r Role) int {
	rank, ok := roleRank[r]
	if !ok {
		return -1
	}
	return rank
}

// CanManageUser reports whether manager strictly outranks target. A role can
// never manage itself or a lateral peer.
func CanManageUser(manager, target Role) bool {
	return Rank(manager) > Rank(target)
}

// PermissionsFor returns the permission set for a role. Unknown roles get the
// empty member set.
func PermissionsFor(r Role) Permissions {
	return rolePermissions[r]
}

// IsPrivileged reports whether a role carries any administrative weight.
func IsPrivileged(r Role) bool {
	return Rank(r) > Rank(RoleMember)
}

// ValidateRoleChange decides whether manager may move a member from oldRole to
// newRole, given the current leader and co-leader counts. Checks run in order;
// the first failure wins.
func ValidateRoleChange(leaderCount, coLeaderCount int, oldRole, newRole, managerRole Role) Verdict {
	if !CanManageUser(managerRole, oldRole) || !CanManageUser(managerRole, newRole) {
		return Verdict{Error: "you do not have permission to make this role change"}
	}

	if oldRole == RoleLeader && leaderCount <= 1 {
		return Verdict{Error: "cannot remove the last leader"}
	}

	// Lateral re-assignment of an existing co-leader is allowed even at the cap.
	if newRole == RoleCoLeader && coLeaderCount >= MaxCoLeaders && oldRole != RoleCoLeader {
		return Verdict{Error: "maximum number of co-leaders reached (2)"}
	}

	return Verdict{IsValid: true}
}

// CanRemoveUser decides whether manager may remove a member holding
// targetRole. isLastAdmin is true when the target is the only remaining
// privileged account of any tier. Checks run in order; the first failure wins.
func CanRemoveUser(targetRole, managerRole Role, leaderCount int, isLastAdmin bool) Verdict {
	if !CanManageUser(managerRole, targetRole) {
		return Verdict{Error: "you do not have permission to remove this user"}
	}

	if targetRole == RoleLeader && leaderCount <= 1 {
		return Verdict{Error: "cannot remove the last leader"}
	}

	if isLastAdmin && IsPrivileged(targetRole) {
		return Verdict{Error: "cannot remove the last admin"}
	}

	return Verdict{IsValid: true}
}
