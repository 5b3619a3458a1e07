package models

import "time"

// User is the identity record stored in the users table.
//
// PasswordHash and RefreshToken never leave the service boundary: responses
// are built from Profile() projections instead. RefreshToken holds the single
// currently valid refresh token for the user, or "" when there is no active
// session.
type User struct {
	ID            string
	Username      string
	Email         string
	Fullname      string
	PasswordHash  string
	AvatarURL     string
	CoverImageURL string
	RefreshToken  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Profile is the public projection of a User.
type Profile struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Fullname      string `json:"fullname"`
	AvatarURL     string `json:"avatar"`
	CoverImageURL string `json:"coverImage"`
}

// Profile strips the password hash and refresh token from a User.
func (u *User) Profile() *Profile {
	return &Profile{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Fullname:      u.Fullname,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
	}
}
