package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for the credential domain.
// Password holds the bcrypt hash and never leaves the service layer.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	Bio       string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeEmail folds an address to the form it is stored and looked up
// under. Addresses differing only in case or surrounding whitespace are
// the same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ProfilePatch is a partial profile update. A nil field is left unchanged;
// a non-nil field replaces the stored value, so an empty Bio or AvatarURL
// clears it. Email and password cannot be patched.
type ProfilePatch struct {
	Name      *string
	Bio       *string
	AvatarURL *string
}

// Apply writes the present fields onto u and returns the names of the
// fields whose value changed.
func (p ProfilePatch) Apply(u *User) []string {
	var changed []string
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name != u.Name {
			u.Name = name
			changed = append(changed, "name")
		}
	}
	if p.Bio != nil && *p.Bio != u.Bio {
		u.Bio = *p.Bio
		changed = append(changed, "bio")
	}
	if p.AvatarURL != nil && *p.AvatarURL != u.AvatarURL {
		u.AvatarURL = *p.AvatarURL
		changed = append(changed, "avatar")
	}
	return changed
}
