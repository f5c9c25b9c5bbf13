package ports

import (
	"context"
	"mime/multipart"

	"photo-manager-api/internal/domain/photo"
	"photo-manager-api/internal/domain/user"
)

type PhotoService interface {
	GetPhoto(ctx context.Context, photoUUID photo.UUID) (*photo.Photo, error)
	ListPhotos(ctx context.Context, userUUID user.UUID) (photo.Photos, error)
	UploadPhoto(ctx context.Context, userUUID user.UUID, principal string, in *multipart.FileHeader) (*photo.Photo, error)
	SetMainPhoto(ctx context.Context, userUUID user.UUID, photoUUID photo.UUID, principal string) error
	DeletePhoto(ctx context.Context, userUUID user.UUID, photoUUID photo.UUID, principal string) error
}
