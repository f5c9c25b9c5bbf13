package cloudinary

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"photo-manager-api/internal/application/ports"
)

type fakeUploadAPI struct {
	UploadFunc  func(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	DestroyFunc func(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

func (f *fakeUploadAPI) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	if f.UploadFunc == nil {
		return nil, errors.New("not used")
	}
	return f.UploadFunc(ctx, file, params)
}

func (f *fakeUploadAPI) Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	if f.DestroyFunc == nil {
		return nil, errors.New("not used")
	}
	return f.DestroyFunc(ctx, params)
}

func newTestClient(api uploadAPI, initErr error) (*Client, *int32) {
	var calls int32
	return &Client{
		logger: zap.NewNop(),
		folder: "profiles",
		newAPI: func() (uploadAPI, error) {
			atomic.AddInt32(&calls, 1)
			return api, initErr
		},
	}, &calls
}

func TestClient_Upload(t *testing.T) {
	tests := []struct {
		name    string
		api     *fakeUploadAPI
		want    ports.UploadResult
		wantErr bool
	}{
		{
			name: "secure url and transformation",
			api: &fakeUploadAPI{
				UploadFunc: func(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
					assert.Equal(t, ProfileTransformation, params.Transformation)
					assert.Equal(t, "photos/u1/abc", params.PublicID)
					assert.Equal(t, "profiles", params.Folder)
					b, err := io.ReadAll(file.(io.Reader))
					require.NoError(t, err)
					assert.Equal(t, "jpeg-bytes", string(b))
					return &uploader.UploadResult{
						PublicID:  "profiles/photos/u1/abc",
						URL:       "http://res.example/abc.jpg",
						SecureURL: "https://res.example/abc.jpg",
					}, nil
				},
			},
			want: ports.UploadResult{URL: "https://res.example/abc.jpg", PublicID: "profiles/photos/u1/abc"},
		},
		{
			name: "api error message",
			api: &fakeUploadAPI{
				UploadFunc: func(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
					return &uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid image file"}}, nil
				},
			},
			wantErr: true,
		},
		{
			name: "transport error",
			api: &fakeUploadAPI{
				UploadFunc: func(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
					return nil, errors.New("dial tcp: timeout")
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(tt.api, nil)

			got, err := c.Upload(context.Background(), "photos/u1/abc", bytes.NewReader([]byte("jpeg-bytes")))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrRemote)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Destroy(t *testing.T) {
	tests := []struct {
		name       string
		result     *uploader.DestroyResult
		err        error
		wantStatus ports.DeleteStatus
		wantErr    bool
	}{
		{name: "ok", result: &uploader.DestroyResult{Result: "ok"}, wantStatus: ports.DeleteOK},
		{name: "not found", result: &uploader.DestroyResult{Result: "not found"}, wantStatus: ports.DeleteNotFound},
		{name: "unexpected result", result: &uploader.DestroyResult{Result: "pending"}, wantStatus: ports.DeleteFailed},
		{name: "api error", result: &uploader.DestroyResult{Error: api.ErrorResp{Message: "bad key"}}, wantStatus: ports.DeleteFailed, wantErr: true},
		{name: "transport error", err: errors.New("reset"), wantStatus: ports.DeleteFailed, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(&fakeUploadAPI{
				DestroyFunc: func(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
					assert.Equal(t, "photos/u1/abc", params.PublicID)
					return tt.result, tt.err
				},
			}, nil)

			status, err := c.Destroy(context.Background(), "photos/u1/abc")
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestClient_InitializedOnce(t *testing.T) {
	c, calls := newTestClient(&fakeUploadAPI{
		DestroyFunc: func(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
			return &uploader.DestroyResult{Result: "ok"}, nil
		},
	}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Destroy(context.Background(), "photos/u1/abc")
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestClient_InitError(t *testing.T) {
	c, calls := newTestClient(nil, errors.New("missing cloud name"))

	_, err := c.Upload(context.Background(), "x", bytes.NewReader(nil))
	require.ErrorIs(t, err, ErrRemote)
	status, err := c.Destroy(context.Background(), "x")
	require.ErrorIs(t, err, ErrRemote)
	assert.Equal(t, ports.DeleteFailed, status)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestClient_DestroyUsesDeleteTimeout(t *testing.T) {
	c, _ := newTestClient(&fakeUploadAPI{
		DestroyFunc: func(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}, nil)
	c.timeout = time.Minute
	c.deleteTimeout = 20 * time.Millisecond

	start := time.Now()
	status, err := c.Destroy(context.Background(), "photos/u1/abc")
	require.ErrorIs(t, err, ErrRemote)
	assert.Equal(t, ports.DeleteFailed, status)
	assert.Less(t, time.Since(start), 5*time.Second)
}
