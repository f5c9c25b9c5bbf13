package ports

import (
	"context"

	"photo-manager-api/internal/domain/user"
)

type UserService interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}
