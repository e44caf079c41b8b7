package user

// User is a registered account. Users are created inactive and never deleted.
type User struct {
	ID             int64  `db:"id"`
	Email          string `db:"email"`
	Name           string `db:"name"`
	Password       string `db:"password"` // bcrypt hash
	IsActive       bool   `db:"is_active"`
	ActivationCode string `db:"activation_code"` // '' once consumed
}

// UserDTO is the public projection of a User.
type UserDTO struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		IsActive: u.IsActive,
	}
}
