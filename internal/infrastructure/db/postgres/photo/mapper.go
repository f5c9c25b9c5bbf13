package photo

import (
	domain "photo-manager-api/internal/domain/photo"
	"photo-manager-api/internal/domain/user"
)

func fromDBModel(model *Photo) *domain.Photo {
	var p = &domain.Photo{
		ID:     domain.ID(model.ID),
		UUID:   model.UUID,
		UserID: user.ID(model.UserID),

		URL:            model.URL,
		RemotePublicID: model.RemotePublicID,
		IsMain:         model.IsMain,

		CreatedAt: model.CreatedAt,
	}

	return p
}

func fromDBModels(models *Photos) domain.Photos {
	ps := make(domain.Photos, len(*models))
	for idx, p := range *models {
		ps[idx] = fromDBModel(p)
	}

	return ps
}
