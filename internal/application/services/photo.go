package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"photo-manager-api/internal/application/ports"
	domain "photo-manager-api/internal/domain/photo"
	"photo-manager-api/internal/domain/user"
	"photo-manager-api/internal/infrastructure/metrics"
	"photo-manager-api/internal/infrastructure/mq"
	"photo-manager-api/internal/interface/api/rest/dto/photo"
)

const publishTimeout = 2 * time.Second

// PhotoService owns the main photo invariant: a user has at most one main
// photo, and exactly one as soon as any photo exists.
type PhotoService struct {
	images          ports.ImageStore
	photoRepository domain.Repository
	userRepository  user.Repository
	cache           ports.PhotoCache
	mq              ports.RabbitMQ
	mCounter        *prometheus.CounterVec
	logger          *zap.Logger
	now             func() time.Time
}

func NewPhotoService(
	images ports.ImageStore,
	photoRepository domain.Repository,
	userRepository user.Repository,
	cache ports.PhotoCache,
	mq ports.RabbitMQ,
	mCounter *prometheus.CounterVec,
	logger *zap.Logger,
) ports.PhotoService {
	return &PhotoService{
		images:          images,
		photoRepository: photoRepository,
		userRepository:  userRepository,
		cache:           cache,
		mq:              mq,
		mCounter:        mCounter,
		logger:          logger,
		now:             time.Now,
	}
}

func (ps *PhotoService) GetPhoto(ctx context.Context, photoUUID domain.UUID) (*domain.Photo, error) {
	if p, ok := ps.cache.Get(ctx, photoUUID); ok {
		ps.mCounter.WithLabelValues(metrics.PhotoCacheHitTotal).Inc()
		return p, nil
	}

	// read before the fetch: a mutation committed meanwhile bumps it and
	// the stale row is not cached
	version, cacheable := ps.cache.Version(ctx, photoUUID)

	p, err := ps.photoRepository.FetchPhoto(ctx, photoUUID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch photo: %w", ErrPersistence, err)
	}
	if p == nil {
		return nil, fmt.Errorf("photo %s: %w", photoUUID, ErrNotFound)
	}

	if cacheable {
		ps.cache.Set(ctx, p, version)
	}

	return p, nil
}

func (ps *PhotoService) ListPhotos(ctx context.Context, userUUID user.UUID) (domain.Photos, error) {
	id, err := ps.internalID(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	photos, err := ps.photoRepository.FetchUserPhotos(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch photos: %w", ErrPersistence, err)
	}

	return photos, nil
}

func (ps *PhotoService) UploadPhoto(
	ctx context.Context,
	userUUID user.UUID,
	principal string,
	in *multipart.FileHeader,
) (*domain.Photo, error) {
	if err := authorize(userUUID, principal); err != nil {
		return nil, err
	}

	id, err := ps.internalID(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	p := new(domain.Photo)
	if in.Size > 0 {
		res, err := ps.upload(ctx, userUUID, in)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRemoteUploadFailed, err)
		}
		p.URL = res.URL
		p.RemotePublicID = &res.PublicID
	}

	var created *domain.Photo
	err = ps.photoRepository.InUserTx(ctx, id, func(tx domain.Tx) error {
		photos, err := tx.FetchUserPhotos(ctx, id)
		if err != nil {
			return err
		}
		p.IsMain = photos.Main() == nil

		created, err = tx.CreatePhoto(ctx, id, p)
		return err
	})
	if err != nil {
		if p.RemotePublicID != nil {
			ps.reportOrphan(userUUID, *p.RemotePublicID, err)
		}
		return nil, txError("create photo", err)
	}

	ps.publish(mq.NewEvent(mq.ActionPhotoUploaded, userUUID.String(), photo.ToResponsePhoto(*created)))
	ps.mCounter.WithLabelValues(metrics.PhotoUploadedTotal).Inc()

	return created, nil
}

func (ps *PhotoService) upload(ctx context.Context, userUUID user.UUID, in *multipart.FileHeader) (ports.UploadResult, error) {
	f, err := in.Open()
	if err != nil {
		return ports.UploadResult{}, err
	}
	defer f.Close()

	return ps.images.Upload(ctx, genPublicID(userUUID, in.Filename, ps.now()), f)
}

func (ps *PhotoService) SetMainPhoto(
	ctx context.Context,
	userUUID user.UUID,
	photoUUID domain.UUID,
	principal string,
) error {
	if err := authorize(userUUID, principal); err != nil {
		return err
	}

	id, err := ps.internalID(ctx, userUUID)
	if err != nil {
		return err
	}

	var target, previous *domain.Photo
	err = ps.photoRepository.InUserTx(ctx, id, func(tx domain.Tx) error {
		photos, err := tx.FetchUserPhotos(ctx, id)
		if err != nil {
			return err
		}

		target = photos.Find(photoUUID)
		if target == nil {
			return ErrNotPhotoOwner
		}
		if target.IsMain {
			return ErrAlreadyMain
		}

		if previous = photos.Main(); previous != nil {
			if err = tx.UpdateIsMain(ctx, previous.ID, false); err != nil {
				return err
			}
		}

		return tx.UpdateIsMain(ctx, target.ID, true)
	})
	if err != nil {
		return txError("set main photo", err)
	}

	invalidate := []domain.UUID{target.UUID}
	if previous != nil {
		invalidate = append(invalidate, previous.UUID)
	}
	ps.cache.Invalidate(ctx, invalidate...)

	target.IsMain = true
	ps.publish(mq.NewEvent(mq.ActionMainChanged, userUUID.String(), photo.ToResponsePhoto(*target)))
	ps.mCounter.WithLabelValues(metrics.PhotoMainSetTotal).Inc()

	return nil
}

func (ps *PhotoService) DeletePhoto(
	ctx context.Context,
	userUUID user.UUID,
	photoUUID domain.UUID,
	principal string,
) error {
	if err := authorize(userUUID, principal); err != nil {
		return err
	}

	id, err := ps.internalID(ctx, userUUID)
	if err != nil {
		return err
	}

	var (
		target        *domain.Photo
		remoteDeleted bool
	)
	err = ps.photoRepository.InUserTx(ctx, id, func(tx domain.Tx) error {
		photos, err := tx.FetchUserPhotos(ctx, id)
		if err != nil {
			return err
		}

		target = photos.Find(photoUUID)
		if target == nil {
			return ErrNotPhotoOwner
		}
		if target.IsMain {
			return ErrIsMainPhoto
		}

		if target.RemotePublicID != nil {
			if err = ps.destroy(ctx, *target.RemotePublicID); err != nil {
				return err
			}
			remoteDeleted = true
		}

		return tx.DeletePhoto(ctx, target.ID)
	})
	if err != nil {
		if remoteDeleted && !isBusinessError(err) {
			ps.logger.Error("remote image deleted but local photo kept",
				zap.String("public_id", *target.RemotePublicID),
				zap.Stringer("photo_uuid", target.UUID),
				zap.Stringer("user_uuid", userUUID),
				zap.Error(err),
			)
		}
		return txError("delete photo", err)
	}

	ps.cache.Invalidate(ctx, target.UUID)
	ps.publish(mq.NewEvent(mq.ActionPhotoDeleted, userUUID.String(), photo.ToResponsePhoto(*target)))
	ps.mCounter.WithLabelValues(metrics.PhotoDeletedTotal).Inc()

	return nil
}

// destroy succeeds only when the image host confirms the deletion.
func (ps *PhotoService) destroy(ctx context.Context, publicID string) error {
	status, err := ps.images.Destroy(ctx, publicID)
	if err == nil && status == ports.DeleteOK {
		return nil
	}

	ps.mCounter.WithLabelValues(metrics.RemoteDeleteFailures).Inc()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRemoteDeleteFailed, publicID, err)
	}
	return fmt.Errorf("%w: %s: result %s", ErrRemoteDeleteFailed, publicID, status)
}

func (ps *PhotoService) internalID(ctx context.Context, userUUID user.UUID) (user.ID, error) {
	id, err := ps.userRepository.FetchInternalID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return 0, fmt.Errorf("user %s: %w", userUUID, ErrNotFound)
		}
		return 0, fmt.Errorf("%w: fetch user: %w", ErrPersistence, err)
	}

	return id, nil
}

// reportOrphan records a remote image that has no local row so it can be
// removed out of band by the orphan consumer.
func (ps *PhotoService) reportOrphan(userUUID user.UUID, publicID string, cause error) {
	ps.logger.Error("remote image orphaned, local save failed",
		zap.String("public_id", publicID),
		zap.Stringer("user_uuid", userUUID),
		zap.Error(cause),
	)
	ps.mCounter.WithLabelValues(metrics.PhotoOrphanedTotal).Inc()

	e := mq.NewEvent(mq.ActionPhotoOrphaned, userUUID.String(), photo.Photo{})
	e.RemotePublicID = publicID
	ps.publish(e)
}

func (ps *PhotoService) publish(e mq.Event) {
	t := time.NewTimer(publishTimeout)
	defer t.Stop()

	select {
	case ps.mq.GetInputChan() <- e:
	case <-t.C:
		ps.logger.Warn("event dropped, publisher queue full",
			zap.String("action", e.Action),
			zap.String("remote_public_id", e.RemotePublicID),
		)
	}
}

func authorize(userUUID user.UUID, principal string) error {
	id, err := uuid.Parse(principal)
	if err != nil || id != userUUID {
		return ErrPrincipalMismatch
	}
	return nil
}
