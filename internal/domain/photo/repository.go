package photo

import (
	"context"
	"errors"

	"photo-manager-api/internal/domain/user"
)

// ErrMainConflict is returned by Tx when a write would leave the user with a
// second main photo.
var ErrMainConflict = errors.New("user already has a main photo")

type Repository interface {
	FetchPhoto(ctx context.Context, uuid UUID) (*Photo, error)
	FetchUserPhotos(ctx context.Context, userID user.ID) (Photos, error)
	// InUserTx runs fn in a transaction that holds a lock on the user's row,
	// so every mutation of one user's photo set is serialised.
	// The transaction is committed only when fn returns nil.
	InUserTx(ctx context.Context, userID user.ID, fn func(tx Tx) error) error
}

// Tx is the photo repository bound to a running transaction.
type Tx interface {
	FetchUserPhotos(ctx context.Context, userID user.ID) (Photos, error)
	CreatePhoto(ctx context.Context, userID user.ID, req *Photo) (*Photo, error)
	UpdateIsMain(ctx context.Context, id ID, isMain bool) error
	DeletePhoto(ctx context.Context, id ID) error
}
