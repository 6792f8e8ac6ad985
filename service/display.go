package service

import (
	"strings"

	"github.com/nakamauwu/casa/types"
)

const (
	AdminLabel    = "Administrator"
	FallbackLabel = "User"
	ViewerLabel   = "You"
)

// DisplayName of a participant. Administrators are never shown by their
// personal name.
func DisplayName(u types.User) string {
	if u.IsAdmin() {
		return AdminLabel
	}

	if u.FullName != nil {
		if s := strings.TrimSpace(*u.FullName); s != "" {
			return s
		}
	}

	if u.Email != nil {
		if s := strings.TrimSpace(*u.Email); s != "" {
			return s
		}
	}

	return FallbackLabel
}

// SenderLabel is the name shown next to a message to viewerID.
func SenderLabel(u types.User, viewerID string) string {
	if u.ID != "" && u.ID == viewerID {
		return ViewerLabel
	}

	return DisplayName(u)
}
