package utils

import (
	"context"

	"github.com/google/uuid"

	"staff-portal/pkg/contextkeys"
	apperrors "staff-portal/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (uuid.UUID, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, apperrors.ErrUnauthorized
	}
	return userID, nil
}

func GetIsAdminFromCtx(ctx context.Context) bool {
	isAdmin, ok := ctx.Value(contextkeys.IsAdminKey).(bool)
	return ok && isAdmin
}
