package repository

import (
	"context"

	"github.com/cryptojackpot/lottery/internal/entity"
	"github.com/cryptojackpot/lottery/pkg/xcontext"
)

type DrawRepository interface {
	Create(ctx context.Context, draw *entity.Draw) error
	GetByID(ctx context.Context, drawID string) (*entity.Draw, error)
}

type drawRepository struct{}

func NewDrawRepository() *drawRepository {
	return &drawRepository{}
}

func (r *drawRepository) Create(ctx context.Context, draw *entity.Draw) error {
	return xcontext.DB(ctx).Create(draw).Error
}

func (r *drawRepository) GetByID(ctx context.Context, drawID string) (*entity.Draw, error) {
	var result entity.Draw
	if err := xcontext.DB(ctx).Take(&result, "id=?", drawID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}
