package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"photo-manager-api/config"
	"photo-manager-api/internal/application/ports"
)

// ProfileTransformation resizes to 500x500, fill crop, centred on the face.
const ProfileTransformation = "w_500,h_500,c_fill,g_face"

const (
	resultOK       = "ok"
	resultNotFound = "not found"
)

var ErrRemote = errors.New("image store error")

type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// Client is shared by the whole process. The SDK handle is built on first
// use and reused by every request afterwards.
type Client struct {
	logger        *zap.Logger
	folder        string
	timeout       time.Duration
	deleteTimeout time.Duration

	newAPI  func() (uploadAPI, error)
	once    sync.Once
	api     uploadAPI
	initErr error
}

func New(logger *zap.Logger, cfg config.Cloudinary) *Client {
	return &Client{
		logger:        logger,
		folder:        cfg.Folder,
		timeout:       cfg.Timeout,
		deleteTimeout: cfg.DeleteTimeout,
		newAPI: func() (uploadAPI, error) {
			cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
			if err != nil {
				return nil, err
			}
			return &cld.Upload, nil
		},
	}
}

func (c *Client) client() (uploadAPI, error) {
	c.once.Do(func() {
		c.api, c.initErr = c.newAPI()
		if c.initErr != nil {
			c.logger.Error("cloudinary client init failed", zap.Error(c.initErr))
			return
		}
		c.logger.Info("cloudinary client initialized")
	})
	return c.api, c.initErr
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func (c *Client) Upload(ctx context.Context, publicID string, r io.Reader) (ports.UploadResult, error) {
	api, err := c.client()
	if err != nil {
		return ports.UploadResult{}, fmt.Errorf("%w: %v", ErrRemote, err)
	}

	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := api.Upload(ctx, r, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         c.folder,
		Transformation: ProfileTransformation,
	})
	if err != nil {
		return ports.UploadResult{}, fmt.Errorf("%w: upload: %v", ErrRemote, err)
	}
	if resp == nil {
		return ports.UploadResult{}, fmt.Errorf("%w: upload: empty response", ErrRemote)
	}
	if resp.Error.Message != "" {
		return ports.UploadResult{}, fmt.Errorf("%w: upload: %s", ErrRemote, resp.Error.Message)
	}

	url := resp.SecureURL
	if url == "" {
		url = resp.URL
	}

	id := resp.PublicID
	if id == "" {
		id = publicID
	}

	return ports.UploadResult{URL: url, PublicID: id}, nil
}

func (c *Client) Destroy(ctx context.Context, publicID string) (ports.DeleteStatus, error) {
	api, err := c.client()
	if err != nil {
		return ports.DeleteFailed, fmt.Errorf("%w: %v", ErrRemote, err)
	}

	ctx, cancel := withTimeout(ctx, c.deleteTimeout)
	defer cancel()

	resp, err := api.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return ports.DeleteFailed, fmt.Errorf("%w: destroy: %v", ErrRemote, err)
	}
	if resp == nil {
		return ports.DeleteFailed, fmt.Errorf("%w: destroy: empty response", ErrRemote)
	}
	if resp.Error.Message != "" {
		return ports.DeleteFailed, fmt.Errorf("%w: destroy: %s", ErrRemote, resp.Error.Message)
	}

	return toDeleteStatus(resp.Result), nil
}

func toDeleteStatus(result string) ports.DeleteStatus {
	switch result {
	case resultOK:
		return ports.DeleteOK
	case resultNotFound:
		return ports.DeleteNotFound
	default:
		return ports.DeleteFailed
	}
}
