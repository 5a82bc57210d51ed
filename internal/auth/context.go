package auth

import (
	"context"
)

// --- Context Helper Functions ---

// GetUserIDFromContext retrieves the authenticated user id from the request
// context. Returns the id and true if found, otherwise 0 and false.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// GetRoleFromContext retrieves the authenticated user's role from the
// request context.
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}
