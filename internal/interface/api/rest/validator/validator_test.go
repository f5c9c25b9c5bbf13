package validator

import (
	"bytes"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-manager-api/internal/interface/api/rest/dto/auth"
)

// smallest valid PNG header plus IHDR chunk
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89,
}

func fileHeader(t *testing.T, content []byte) *multipart.FileHeader {
	t.Helper()

	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	fw, err := w.CreateFormFile("file", "upload.bin")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&b, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["file"][0]
}

func TestValidatePhoto(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		wantErr error
	}{
		{name: "png", content: pngBytes},
		{name: "empty file", content: []byte{}},
		{name: "plain text", content: []byte("hello, not an image"), wantErr: ErrNotAnImage},
		{name: "too large", content: bytes.Repeat([]byte{0}, MaxPhotoSize+1), wantErr: ErrPhotoTooLarge},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePhoto(fileHeader(t, tt.content))
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestIsUUID(t *testing.T) {
	ok, id := IsUUID("6f1c2c9e-8d5a-4a8e-9b52-3b0f5f1a2c11")
	assert.True(t, ok)
	assert.Equal(t, "6f1c2c9e-8d5a-4a8e-9b52-3b0f5f1a2c11", id.String())

	ok, _ = IsUUID("nope")
	assert.False(t, ok)
}

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name     string
		req      auth.LoginRequest
		wantKeys []string
	}{
		{name: "ok", req: auth.LoginRequest{Email: "a@b.io", Password: "password1"}},
		{name: "empty", req: auth.LoginRequest{}, wantKeys: []string{"email", "password"}},
		{name: "bad email short password", req: auth.LoginRequest{Email: "nope", Password: "short"}, wantKeys: []string{"email", "password"}},
		{name: "password too long", req: auth.LoginRequest{Email: "a@b.io", Password: strings.Repeat("x", 73)}, wantKeys: []string{"password"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateLogin(tt.req)
			if len(tt.wantKeys) == 0 {
				assert.Nil(t, errs)
				return
			}
			require.Len(t, errs, len(tt.wantKeys))
			for _, k := range tt.wantKeys {
				assert.Contains(t, errs, k)
			}
		})
	}
}
