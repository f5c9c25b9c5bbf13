package user

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "photo-manager-api/internal/domain/user"
)

var userColumns = []string{"id", "uuid", "email", "password_hash", "role", "name", "created_at", "updated_at"}

func TestRepository_FetchUserByEmail(t *testing.T) {
	uid := uuid.New()
	hash := "$2a$10$hash"
	now := time.Now()

	tests := []struct {
		name    string
		setup   func(m pgxmock.PgxPoolIface)
		wantNil bool
		wantErr bool
	}{
		{
			name: "found",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery(regexp.QuoteMeta("FROM users")).
					WithArgs("john@example.com").
					WillReturnRows(pgxmock.NewRows(userColumns).
						AddRow(uint64(7), uid, "john@example.com", &hash, "user", "John", now, now))
			},
		},
		{
			name: "not found",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery(regexp.QuoteMeta("FROM users")).
					WithArgs("john@example.com").
					WillReturnError(pgx.ErrNoRows)
			},
			wantNil: true,
		},
		{
			name: "db error",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery(regexp.QuoteMeta("FROM users")).
					WithArgs("john@example.com").
					WillReturnError(errors.New("conn reset"))
			},
			wantNil: true,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()
			tt.setup(mock)

			u, err := NewRepository(mock).FetchUserByEmail(context.Background(), "john@example.com")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			if tt.wantNil {
				assert.Nil(t, u)
			} else {
				require.NotNil(t, u)
				assert.Equal(t, uid, u.UUID)
				assert.Equal(t, "John", u.Name)
				require.NotNil(t, u.PasswordHash)
				assert.Equal(t, hash, *u.PasswordHash)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_FetchInternalID(t *testing.T) {
	uid := uuid.New()

	t.Run("found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users")).
			WithArgs(uid.String()).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(uint64(42)))

		id, err := NewRepository(mock).FetchInternalID(context.Background(), uid)
		require.NoError(t, err)
		assert.Equal(t, domain.ID(42), id)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found maps to ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users")).
			WithArgs(uid.String()).
			WillReturnError(pgx.ErrNoRows)

		_, err = NewRepository(mock).FetchInternalID(context.Background(), uid)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
