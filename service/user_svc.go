package service

import (
	"context"
	"strings"

	"github.com/nakamauwu/casa/types"
	"github.com/nicolasparada/go-errs"
)

// SyncUser mirrors a profile from the identity collaborator so it can be
// shown to the other participant.
func (svc *Service) SyncUser(ctx context.Context, u types.User) error {
	u.ID = strings.TrimSpace(u.ID)
	if u.ID == "" {
		return errs.InvalidArgumentError("user ID is required")
	}

	if u.Role == "" {
		u.Role = types.RoleRegular
	}

	if !u.Role.Valid() {
		return errs.InvalidArgumentError("invalid user role")
	}

	return svc.Store.UpsertUser(ctx, u)
}
