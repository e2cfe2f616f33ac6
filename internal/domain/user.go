package domain

// Theme names the colour scheme a UI shell renders with.
type Theme string

// Supported themes.
const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// GuestUsername identifies the placeholder profile used before login.
const GuestUsername = "guest"

// UserPrefs are process-wide display and behaviour toggles.
type UserPrefs struct {
	ShouldCreateNewItemWhenCreateNewCategory bool  `json:"shouldCreateNewItemWhenCreateNewCategory"`
	HideQuantity                             bool  `json:"hideQuantity"`
	Theme                                    Theme `json:"theme,omitempty" validate:"omitempty,oneof=dark light"`
}

// DefaultUserPrefs returns the preferences used when none are stored.
func DefaultUserPrefs() UserPrefs {
	return UserPrefs{Theme: ThemeDark}
}

// User is the profile items and categories are keyed by.
// The password is never persisted locally.
type User struct {
	UserID    string     `json:"UserId" validate:"required"`
	Email     string     `json:"Email,omitempty"`
	Username  string     `json:"Username"`
	Role      string     `json:"Role,omitempty"`
	Status    string     `json:"Status,omitempty"`
	UserPrefs *UserPrefs `json:"userPrefs,omitempty"`
}

// IsGuest reports whether u is the locally synthesised placeholder.
func (u *User) IsGuest() bool {
	return u.Role == GuestUsername
}

// NewGuestUser returns a placeholder profile with the given id.
func NewGuestUser(userID string) *User {
	return &User{
		UserID:   userID,
		Username: GuestUsername,
		Role:     GuestUsername,
	}
}

// Credentials are exchanged for a session token at the remote /Login endpoint.
type Credentials struct {
	Username string `json:"Username" validate:"notblank"`
	Password string `json:"Password" validate:"notblank"`
}

// LoginResult is the remote /Login payload.
type LoginResult struct {
	User  *User  `json:"User,omitempty"`
	Token string `json:"Token"`
}
