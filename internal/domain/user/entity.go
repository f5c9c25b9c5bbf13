package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("user not found")

type (
	ID   uint64
	UUID = uuid.UUID
	User struct {
		UUID         UUID
		Email        string
		PasswordHash *string
		Role         string
		Name         string

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Users []*User
)
