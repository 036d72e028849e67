package identity

import (
	"context"
	"errors"

	"trackplane/pkg/errutil"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Provider supplies the trusted actor record for an authenticated user.
type Provider interface {
	ActorFromUserID(ctx context.Context, userID string) (*Actor, error)
}

type Service struct {
	db *gorm.DB
}

type ServiceParams struct {
	fx.In
	DB *gorm.DB
}

func NewService(p ServiceParams) *Service {
	return &Service{db: p.DB}
}

func (s *Service) ActorFromUserID(ctx context.Context, userID string) (*Actor, error) {
	if userID == "" {
		return nil, errutil.Unauthorized("missing user identity")
	}

	var user User
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errutil.Unauthorized("unknown user identity")
	}
	if err != nil {
		zap.L().Error("failed to resolve actor", zap.String("user_id", userID), zap.Error(err))
		return nil, errutil.Internal("failed to resolve actor", errutil.WithErr(err))
	}

	return &Actor{
		ID:      user.ID,
		Name:    user.Name,
		Role:    user.Role.Normalize(),
		Company: user.Company,
	}, nil
}
