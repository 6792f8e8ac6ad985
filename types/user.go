package types

type Role string

const (
	RoleRegular Role = "regular"
	RoleAdmin   Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) Valid() bool {
	return r == RoleRegular || r == RoleAdmin
}

// User is the profile provided by the identity collaborator.
// It is referenced, never mutated, by the chat subsystem.
type User struct {
	ID       string  `json:"id" db:"id"`
	Role     Role    `json:"role" db:"role"`
	FullName *string `json:"fullName" db:"full_name"`
	Email    *string `json:"email" db:"email"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
