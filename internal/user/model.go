package user

import "time"

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

type User struct {
	ID        int
	Email     string
	Password  string
	FullName  *string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
