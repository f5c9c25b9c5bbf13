package photo

import (
	"photo-manager-api/internal/domain/photo"
)

func ToResponsePhoto(pDomain photo.Photo) Photo {
	var p = Photo{
		UUID:      pDomain.UUID,
		URL:       pDomain.URL,
		IsMain:    pDomain.IsMain,
		CreatedAt: pDomain.CreatedAt,
	}

	return p
}

func ToResponsePhotos(psDomain photo.Photos) Photos {
	ps := make(Photos, len(psDomain))
	for idx, p := range psDomain {
		ps[idx] = ToResponsePhoto(*p)
	}

	return ps
}
