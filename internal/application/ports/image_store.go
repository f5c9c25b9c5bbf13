package ports

import (
	"context"
	"io"
)

type DeleteStatus int

const (
	DeleteFailed DeleteStatus = iota
	DeleteOK
	DeleteNotFound
)

func (s DeleteStatus) String() string {
	switch s {
	case DeleteOK:
		return "ok"
	case DeleteNotFound:
		return "not_found"
	default:
		return "failed"
	}
}

type UploadResult struct {
	URL      string
	PublicID string
}

// ImageStore is the remote image host. Upload applies the profile photo
// transformation (500x500, fill crop, face gravity).
type ImageStore interface {
	Upload(ctx context.Context, publicID string, r io.Reader) (UploadResult, error)
	Destroy(ctx context.Context, publicID string) (DeleteStatus, error)
}
