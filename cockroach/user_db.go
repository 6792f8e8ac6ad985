package cockroach

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgxutil"
	"github.com/nakamauwu/casa/types"
	"github.com/nicolasparada/go-db"
)

const sqlUserCols = `
	  users.id
	, users.role
	, users.full_name
	, users.email
`

// UpsertUser mirrors the profile given by the identity collaborator.
// Rows are only rewritten when something changed.
func (c *Cockroach) UpsertUser(ctx context.Context, u types.User) error {
	const query = `
		INSERT INTO users (id, role, full_name, email)
		VALUES (@user_id, @role, @full_name, @email)
		ON CONFLICT (id) DO UPDATE
		SET role = excluded.role,
			full_name = excluded.full_name,
			email = excluded.email,
			updated_at = now()
		WHERE (users.role, users.full_name, users.email) IS DISTINCT FROM (excluded.role, excluded.full_name, excluded.email)
	`
	_, err := c.db.Exec(ctx, query, pgx.StrictNamedArgs{
		"user_id":   u.ID,
		"role":      u.Role.String(),
		"full_name": u.FullName,
		"email":     u.Email,
	})
	if err != nil {
		return sqlErr("sql upsert user", err)
	}

	return nil
}

func (c *Cockroach) User(ctx context.Context, userID string) (types.User, error) {
	query := `SELECT ` + sqlUserCols + ` FROM users WHERE users.id = @user_id`
	args := pgx.StrictNamedArgs{"user_id": userID}
	user, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowToStructByName[types.User])
	if db.IsNotFoundError(err) {
		return user, types.ErrUserNotFound
	}

	if err != nil {
		return user, sqlErr("sql select user", err)
	}

	return user, nil
}

// SupportAdmin picks the administrator that receives new support
// conversations. excludeUserID is never picked.
func (c *Cockroach) SupportAdmin(ctx context.Context, excludeUserID string) (types.User, error) {
	query := `SELECT ` + sqlUserCols + `
		FROM users
		WHERE users.role = @admin_role
			AND users.id != @exclude_user_id
		ORDER BY users.id
		LIMIT 1
	`
	args := pgx.StrictNamedArgs{
		"admin_role":      types.RoleAdmin.String(),
		"exclude_user_id": excludeUserID,
	}
	user, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowToStructByName[types.User])
	if db.IsNotFoundError(err) {
		return user, types.ErrSupportTargetNotFound
	}

	if err != nil {
		return user, sqlErr("sql select support admin", err)
	}

	return user, nil
}
