package photo

import (
	"time"

	"github.com/google/uuid"

	"photo-manager-api/internal/domain/user"
)

type (
	ID    uint64
	UUID  = uuid.UUID
	Photo struct {
		ID     ID
		UUID   UUID
		UserID user.ID

		URL            string
		RemotePublicID *string
		IsMain         bool

		CreatedAt time.Time
	}
	Photos []*Photo
)

// Main returns the user's main photo or nil when the set has none.
func (ps Photos) Main() *Photo {
	for _, p := range ps {
		if p.IsMain {
			return p
		}
	}
	return nil
}

func (ps Photos) Find(uuid UUID) *Photo {
	for _, p := range ps {
		if p.UUID == uuid {
			return p
		}
	}
	return nil
}
