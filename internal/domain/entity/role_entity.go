package entity

// Role is the authorization role attached to a user.
// Only two roles exist: shoppers and catalog/order administrators.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}
