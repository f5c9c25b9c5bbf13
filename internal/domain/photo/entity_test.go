package photo

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPhotos_MainAndFind(t *testing.T) {
	a := &Photo{ID: 1, UUID: uuid.New(), IsMain: true}
	b := &Photo{ID: 2, UUID: uuid.New()}

	tests := []struct {
		name     string
		photos   Photos
		find     UUID
		wantMain *Photo
		wantFind *Photo
	}{
		{name: "empty set", photos: nil, find: a.UUID, wantMain: nil, wantFind: nil},
		{name: "main present", photos: Photos{b, a}, find: b.UUID, wantMain: a, wantFind: b},
		{name: "no main", photos: Photos{b}, find: uuid.New(), wantMain: nil, wantFind: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMain, tt.photos.Main())
			assert.Equal(t, tt.wantFind, tt.photos.Find(tt.find))
		})
	}
}
