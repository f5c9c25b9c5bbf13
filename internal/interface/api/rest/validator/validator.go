package validator

import (
	"errors"
	"io"
	"mime/multipart"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"photo-manager-api/internal/interface/api/rest/dto/auth"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt safe

	MaxPhotoSize = 10 << 20
)

var (
	ErrPhotoTooLarge = errors.New("photo exceeds 10MB")
	ErrNotAnImage    = errors.New("file is not a supported image")
)

var allowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/heic",
	"image/avif",
}

func IsUUID(s string) (bool, uuid.UUID) {
	id, err := uuid.Parse(s)
	return err == nil, id
}

// ValidatePhoto checks size and content type. An empty file is accepted
// and stored without a remote image.
func ValidatePhoto(fh *multipart.FileHeader) error {
	if fh.Size > MaxPhotoSize {
		return ErrPhotoTooLarge
	}
	if fh.Size == 0 {
		return nil
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	return IsImage(f)
}

// IsImage sniffs the leading bytes, the client's Content-Type is ignored.
func IsImage(r io.Reader) error {
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return err
	}
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		return ErrNotAnImage
	}
	return nil
}

func ValidateLogin(r auth.LoginRequest) map[string]string {
	errs := make(map[string]string)

	// Normalize
	email := strings.ToLower(strings.TrimSpace(r.Email))
	password := r.Password // never trimmed, only checked for blank

	// email (required + format)
	if email == "" {
		errs["email"] = "email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "invalid email format"
	}

	// password (required + length)
	if strings.TrimSpace(password) == "" {
		errs["password"] = "password is required"
	} else if l := utf8.RuneCountInString(password); l < minPasswordLen || l > maxPasswordLen {
		errs["password"] = "password length must be 8-72 characters"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
