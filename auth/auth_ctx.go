// Package auth carries the identity given by the identity collaborator.
// Nothing in here authenticates; callers are trusted to set the user.
package auth

import (
	"context"

	"github.com/nakamauwu/casa/types"
)

var ctxKeyUser = struct{ name string }{name: "ctx-key-user"}

func ContextWithUser(ctx context.Context, user types.User) context.Context {
	return context.WithValue(ctx, ctxKeyUser, user)
}

// UserFromContext reports false when no user, or a user without an ID,
// was set.
func UserFromContext(ctx context.Context) (types.User, bool) {
	user, ok := ctx.Value(ctxKeyUser).(types.User)
	return user, ok && user.ID != ""
}
