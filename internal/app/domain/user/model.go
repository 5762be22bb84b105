package user

import "time"

// User represents a registered account. Username and email are unique across
// the system; PasswordHash is a bcrypt digest and never leaves the backend.
type User struct {
	ID              string
	Username        string
	Email           string
	PasswordHash    string
	ProfileImageURL string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Public is the externally visible projection of a user.
type Public struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	ProfileImageURL string    `json:"profile_image,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToPublic strips credential material from a user record.
func (u User) ToPublic() Public {
	return Public{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
	}
}
