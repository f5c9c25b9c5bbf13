package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"photo-manager-api/internal/application/ports"
	"photo-manager-api/internal/application/services"
	"photo-manager-api/internal/infrastructure/jwt"
	"photo-manager-api/internal/interface/api/rest/dto/photo"
	"photo-manager-api/internal/interface/api/rest/middleware"
	"photo-manager-api/internal/interface/api/rest/validator"
)

// multipart envelope on top of the photo itself
const maxUploadBody = validator.MaxPhotoSize + 1<<20

type PhotoController struct {
	photoService ports.PhotoService
	logger       *zap.Logger
}

func NewPhotoController(
	r *gin.Engine,
	photoService ports.PhotoService,
	logger *zap.Logger,
	jwtService *jwt.Service,
	uploadLimiter *middleware.IPRateLimiter,
) *PhotoController {
	pc := &PhotoController{
		photoService: photoService,
		logger:       logger,
	}

	auth := middleware.AuthMiddleware(jwtService)

	r.GET(RouteUserPhotos, auth, pc.ListPhotosHandler)
	r.GET(RoutePhoto, auth, pc.GetPhotoHandler)
	r.POST(
		RouteUserPhotos,
		middleware.RateLimit(uploadLimiter),
		middleware.UploadBodyLimit(maxUploadBody),
		auth,
		pc.UploadPhotoHandler,
	)
	r.POST(RouteSetMain, auth, pc.SetMainPhotoHandler)
	r.DELETE(RoutePhoto, auth, pc.DeletePhotoHandler)

	return pc
}

func (pc *PhotoController) ListPhotosHandler(c *gin.Context) {
	ok, userUUID := validator.IsUUID(c.Param("user_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "user_id must be a valid UUID"},
		)
		return
	}

	photos, err := pc.photoService.ListPhotos(c.Request.Context(), userUUID)
	if err != nil {
		pc.writeError(c, "ListPhotos", "could not get photos", err)
		return
	}

	c.JSON(http.StatusOK, photo.ResponseData{
		Data: photo.ToResponsePhotos(photos),
	})
}

func (pc *PhotoController) GetPhotoHandler(c *gin.Context) {
	if ok, _ := validator.IsUUID(c.Param("user_id")); !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "user_id must be a valid UUID"},
		)
		return
	}
	ok, photoUUID := validator.IsUUID(c.Param("photo_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "photo_id must be a valid UUID"},
		)
		return
	}

	p, err := pc.photoService.GetPhoto(c.Request.Context(), photoUUID)
	if err != nil {
		pc.writeError(c, "GetPhoto", "could not get photo", err)
		return
	}

	c.JSON(http.StatusOK, photo.ToResponsePhoto(*p))
}

func (pc *PhotoController) UploadPhotoHandler(c *gin.Context) {
	ok, userUUID := validator.IsUUID(c.Param("user_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "user_id must be a valid UUID"},
		)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": validator.ErrPhotoTooLarge.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	if err = validator.ValidatePhoto(fh); err != nil {
		switch {
		case errors.Is(err, validator.ErrPhotoTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		case errors.Is(err, validator.ErrNotAnImage):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			pc.logger.Error("ValidatePhoto() error", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read photo"})
		}
		return
	}

	p, err := pc.photoService.UploadPhoto(c.Request.Context(), userUUID, c.GetString(middleware.CtxUserID), fh)
	if err != nil {
		pc.writeError(c, "UploadPhoto", "could not add photo", err)
		return
	}

	c.Header("Location", RouteUsers+"/"+userUUID.String()+"/photos/"+p.UUID.String())
	c.JSON(http.StatusCreated, photo.ToResponsePhoto(*p))
}

func (pc *PhotoController) SetMainPhotoHandler(c *gin.Context) {
	ok, userUUID := validator.IsUUID(c.Param("user_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "user_id must be a valid UUID"},
		)
		return
	}
	ok, photoUUID := validator.IsUUID(c.Param("photo_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "photo_id must be a valid UUID"},
		)
		return
	}

	err := pc.photoService.SetMainPhoto(c.Request.Context(), userUUID, photoUUID, c.GetString(middleware.CtxUserID))
	if err != nil {
		pc.writeError(c, "SetMainPhoto", "could not set main photo", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (pc *PhotoController) DeletePhotoHandler(c *gin.Context) {
	ok, userUUID := validator.IsUUID(c.Param("user_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "user_id must be a valid UUID"},
		)
		return
	}
	ok, photoUUID := validator.IsUUID(c.Param("photo_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "photo_id must be a valid UUID"},
		)
		return
	}

	err := pc.photoService.DeletePhoto(c.Request.Context(), userUUID, photoUUID, c.GetString(middleware.CtxUserID))
	if err != nil {
		pc.writeError(c, "DeletePhoto", "could not delete photo", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "photo deleted"})
}

// writeError maps service errors to statuses. Persistence failures answer
// with the generic message so storage details stay in the log.
func (pc *PhotoController) writeError(c *gin.Context, op, generic string, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrRemoteDeleteFailed):
		pc.logger.Warn(op+"() remote delete failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrRemoteDeleteFailed.Error()})
	case errors.Is(err, services.ErrRemoteUploadFailed):
		pc.logger.Error(op+"() error", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": services.ErrRemoteUploadFailed.Error()})
	case errors.Is(err, services.ErrPersistence):
		pc.logger.Error(op+"() error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": generic})
	default:
		pc.logger.Error(op+"() error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": generic})
	}
}
