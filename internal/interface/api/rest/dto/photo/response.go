package photo

import (
	"time"

	"github.com/google/uuid"
)

type (
	Photo struct {
		UUID      uuid.UUID `json:"uuid"`
		URL       string    `json:"url"`
		IsMain    bool      `json:"is_main"`
		CreatedAt time.Time `json:"created_at"`
	}
	Photos       []Photo
	ResponseData struct {
		Data Photos `json:"data"`
	}
)
