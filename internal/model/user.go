package model

// UserRef is the author summary embedded in posts and comments.
type UserRef struct {
	ID        string `json:"_id"`
	Username  string `json:"username"`
	FullName  string `json:"fullname"`
	AvatarURL string `json:"profile"`
}

// Identity is the authenticated user as known by this process. Populated only
// by a successful authentication call, cleared entirely on logout.
type Identity struct {
	UserID    string
	Username  string
	FullName  string
	Email     string
	MobileNum string
	Gender    string
	AvatarURL string
}

// IdentityUpdate is a partial merge into Identity; nil fields are left as-is.
type IdentityUpdate struct {
	FullName  *string
	MobileNum *string
	AvatarURL *string
}
