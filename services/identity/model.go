package identity

import (
	"fmt"
	"strings"
	"time"
)

// Role is the organisational rank of a user. The rule set is small,
// closed and order-sensitive, so it is encoded as literal lookup tables
// rather than any inheritance scheme.
type Role string

const (
	RoleGod      Role = "god"
	RoleLeader   Role = "leader"
	RoleColeader Role = "coleader"
	RoleElder    Role = "elder"
	RoleMember   Role = "member"
)

// roleRank is a total order, highest first: god > leader > coleader >
// elder > member. Unknown roles rank 0 and fail every authority check.
var roleRank = map[Role]int{
	RoleGod:      5,
	RoleLeader:   4,
	RoleColeader: 3,
	RoleElder:    2,
	RoleMember:   1,
}

// assignableRoles maps an actor role to the set of roles it may assign
// tasks to: strictly below the actor, member assigns nobody.
var assignableRoles = map[Role][]Role{
	RoleGod:      {RoleLeader, RoleColeader, RoleElder, RoleMember},
	RoleLeader:   {RoleColeader, RoleElder, RoleMember},
	RoleColeader: {RoleElder, RoleMember},
	RoleElder:    {RoleMember},
}

// Normalize trims surrounding whitespace from a stored role value.
func (r Role) Normalize() Role {
	return Role(strings.TrimSpace(string(r)))
}

// Rank returns the numeric rank of the role, 0 for unknown or empty.
func (r Role) Rank() int {
	return roleRank[r.Normalize()]
}

// Outranks reports whether r ranks strictly above other.
func (r Role) Outranks(other Role) bool {
	return r.Rank() > other.Rank()
}

// AssignableRoles returns the roles r may assign tasks to. The returned
// slice is shared; callers must not mutate it.
func (r Role) AssignableRoles() []Role {
	return assignableRoles[r.Normalize()]
}

type User struct {
	ID           string    `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updatedAt"`
	Name         string    `gorm:"column:name" json:"name"`
	Company      string    `gorm:"column:company" json:"company"`
	Department   string    `gorm:"column:department" json:"department"`
	Designation  string    `gorm:"column:designation" json:"designation"`
	UserName     string    `gorm:"column:user_name;uniqueIndex" json:"userName"`
	EmployeeID   string    `gorm:"column:employee_id" json:"employeeId"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`
	Role         Role      `gorm:"column:role" json:"role"`
}

// AssignmentLabel is the denormalized display string stored on tasks
// alongside the assignee id.
func (u *User) AssignmentLabel() string {
	employeeID := u.EmployeeID
	if employeeID == "" {
		employeeID = "-"
	}
	return fmt.Sprintf("%s (%s | %s)", u.Name, employeeID, u.UserName)
}

// Actor is the trusted identity attached to every mutation. It is
// resolved by the identity service from an already-authenticated user
// id; token mechanics live outside this core.
type Actor struct {
	ID      string
	Name    string
	Role    Role
	Company string
}
