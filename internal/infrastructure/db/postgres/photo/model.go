package photo

import (
	"time"

	"github.com/google/uuid"
)

type (
	Photo struct {
		ID     uint64
		UUID   uuid.UUID
		UserID uint64

		URL            string
		RemotePublicID *string
		IsMain         bool

		CreatedAt time.Time
	}
	Photos []*Photo
)
