package photo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"photo-manager-api/internal/domain/photo"
	"photo-manager-api/internal/domain/user"
	"photo-manager-api/internal/infrastructure/db/postgres"
)

var ErrPhotoNotFound = errors.New("photo row not found")

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) photo.Repository {
	return &Repository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPhoto(row scanner) (*Photo, error) {
	p := new(Photo)
	err := row.Scan(
		&p.ID,
		&p.UUID,
		&p.UserID,

		&p.URL,
		&p.RemotePublicID,
		&p.IsMain,

		&p.CreatedAt,
	)
	return p, err
}

func fetchUserPhotos(ctx context.Context, q postgres.Querier, userID user.ID) (photo.Photos, error) {
	rows, err := q.Query(ctx, SelectUserPhotos, uint64(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ps Photos
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(&ps), nil
}

func (r *Repository) FetchPhoto(ctx context.Context, uuid photo.UUID) (*photo.Photo, error) {
	p, err := scanPhoto(r.db.QueryRow(ctx, SelectPhotoByUUID, uuid.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(p), nil
}

func (r *Repository) FetchUserPhotos(ctx context.Context, userID user.ID) (photo.Photos, error) {
	return fetchUserPhotos(ctx, r.db, userID)
}

func (r *Repository) InUserTx(ctx context.Context, userID user.ID, fn func(tx photo.Tx) error) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var locked uint64
	if err = tx.QueryRow(ctx, LockUserByID, uint64(userID)).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("user id %d: %w", userID, user.ErrNotFound)
		}
		return err
	}

	if err = fn(&txRepository{q: tx}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

type txRepository struct {
	q postgres.Querier
}

func (t *txRepository) FetchUserPhotos(ctx context.Context, userID user.ID) (photo.Photos, error) {
	return fetchUserPhotos(ctx, t.q, userID)
}

func (t *txRepository) CreatePhoto(ctx context.Context, userID user.ID, req *photo.Photo) (*photo.Photo, error) {
	p, err := scanPhoto(t.q.QueryRow(
		ctx,
		InsertPhoto,
		uint64(userID), req.URL, req.RemotePublicID, req.IsMain,
	))
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, fmt.Errorf("insert photo: %w", photo.ErrMainConflict)
		}
		return nil, err
	}

	return fromDBModel(p), nil
}

func (t *txRepository) UpdateIsMain(ctx context.Context, id photo.ID, isMain bool) error {
	tag, err := t.q.Exec(ctx, UpdatePhotoIsMain, isMain, uint64(id))
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return fmt.Errorf("update photo id %d: %w", id, photo.ErrMainConflict)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update photo id %d: %w", id, ErrPhotoNotFound)
	}

	return nil
}

func (t *txRepository) DeletePhoto(ctx context.Context, id photo.ID) error {
	tag, err := t.q.Exec(ctx, DeletePhotoByID, uint64(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete photo id %d: %w", id, ErrPhotoNotFound)
	}

	return nil
}
