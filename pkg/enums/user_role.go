package enums

// UserRole distinguishes admin operators from quoting customers.
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleCustomer UserRole = "customer"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleCustomer:
		return true
	}
	return false
}

func (r UserRole) String() string {
	return string(r)
}
