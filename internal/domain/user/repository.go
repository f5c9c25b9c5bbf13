package user

import (
	"context"
)

// Repository is read-only: accounts are created and removed by another service.
type Repository interface {
	FetchUserByEmail(ctx context.Context, email string) (*User, error)
	FetchInternalID(ctx context.Context, uuid UUID) (ID, error)
}
