package services

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: "photo"},
		{name: "plain", in: "Beach.JPG", want: "beach.jpg"},
		{name: "accents stripped", in: "Été à Nice.png", want: "ete-a-nice.png"},
		{name: "windows path", in: `C:\Users\me\IMG_001.jpeg`, want: "img-001.jpeg"},
		{name: "traversal", in: "../../etc/passwd", want: "passwd"},
		{name: "dots only", in: "..", want: "photo"},
		{name: "camera upper case", in: "IMG_001.JPG", want: "img-001.jpg"},
		{name: "device names untouched", in: "con.jpg", want: "con.jpg"},
		{name: "only symbols", in: "@@@.gif", want: "photo.gif"},
		{name: "weird extension dropped", in: "selfie.j%g", want: "selfie"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeFileName(tt.in))
		})
	}
}

func TestSanitizeFileName_Truncates(t *testing.T) {
	got := sanitizeFileName(strings.Repeat("a", 200) + ".jpg")
	assert.Len(t, got, maxBaseNameLen)
	assert.True(t, strings.HasSuffix(got, ".jpg"))
}

func TestGenPublicID(t *testing.T) {
	uid := uuid.MustParse("6f1c2c9e-8d5a-4a8e-9b52-3b0f5f1a2c11")
	now := time.Date(2024, 3, 9, 14, 5, 6, 7, time.UTC)

	got := genPublicID(uid, "My Selfie.JPG", now)
	assert.Equal(t, "photos/6f1c2c9e8d5a4a8e9b523b0f5f1a2c11/20240309T140506.000000007Z-my-selfie", got)

	assert.NotEqual(t, got, genPublicID(uid, "My Selfie.JPG", now.Add(time.Nanosecond)))
}
