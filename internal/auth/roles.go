package auth

import "strings"

type Role string

const (
	RoleCustomer   Role = "customer"
	RoleWaiter     Role = "waiter"
	RoleManager    Role = "manager"
	RoleSupervisor Role = "supervisor"
	RoleOwner      Role = "owner"
)

var roleRank = map[Role]int{
	RoleCustomer:   1,
	RoleWaiter:     2,
	RoleManager:    3,
	RoleSupervisor: 4,
	RoleOwner:      5,
}

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	_, ok := roleRank[r]
	return r, ok
}

// AtLeast reports whether r grants everything required grants. Unknown roles
// grant nothing.
func (r Role) AtLeast(required Role) bool {
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	return have >= roleRank[required]
}
