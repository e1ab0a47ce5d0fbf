package domain

// Permission is an enumerated capability checked against a role's grant set.
type Permission string

const (
	PermPlaceOrder    Permission = "place_order"
	PermViewOwnOrders Permission = "view_own_orders"
	PermViewOrders    Permission = "view_orders"
	PermManageOrders  Permission = "manage_orders"
	PermManageUsers   Permission = "manage_users"
	PermManageBooks   Permission = "manage_books"
)

// rolePermissions maps each role to its full grant set. Resolution is pure:
// nothing outside this table is consulted per request.
var rolePermissions = map[string]map[Permission]struct{}{
	RoleAdmin: permSet(
		PermPlaceOrder,
		PermViewOwnOrders,
		PermViewOrders,
		PermManageOrders,
		PermManageUsers,
		PermManageBooks,
	),
	RoleUser: permSet(
		PermPlaceOrder,
		PermViewOwnOrders,
	),
}

func permSet(perms ...Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// RoleHasPermission reports whether role is granted perm. Unknown roles hold
// no permissions at all.
func RoleHasPermission(role string, perm Permission) bool {
	_, ok := rolePermissions[role][perm]
	return ok
}
