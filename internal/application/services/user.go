package services

import (
	"context"

	"photo-manager-api/internal/application/ports"
	domain "photo-manager-api/internal/domain/user"
)

type UserService struct {
	userRepository domain.Repository
}

func NewUserService(userRepository domain.Repository) ports.UserService {
	return &UserService{
		userRepository: userRepository,
	}
}

func (us *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := us.userRepository.FetchUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return u, nil
}
