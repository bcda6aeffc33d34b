package ledger

import (
	"github.com/diewo77/tvstock/auth"
	"github.com/diewo77/tvstock/gate"
	"github.com/diewo77/tvstock/internal/models"
)

// NewGate returns the shop's role gate: admins may do anything, staff may
// work stock, sales, transfers and history.
func NewGate() *gate.Gate[auth.Principal] {
	r := gate.NewRoleResolver(func(p auth.Principal) string { return p.Role })
	r.Set(string(models.RoleAdmin), gate.NewStaticProfile(string(models.RoleAdmin), gate.PermissionSuperAdmin))
	r.Set(string(models.RoleStaff), gate.NewStaticProfile(string(models.RoleStaff),
		"stock:*",
		"sale:*",
		"transfer:*",
		"history:*",
	))
	return gate.New[auth.Principal](r)
}
