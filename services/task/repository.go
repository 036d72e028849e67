package task

import (
	"context"
	"errors"

	"trackplane/services/identity"

	"gorm.io/gorm"
)

// Repository is the persistence boundary of the task service. Get
// returns (nil, nil) when no row matches.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context, id string) (*Task, error)
	List(ctx context.Context) ([]Task, error)
	Create(ctx context.Context, t *Task) error
	Save(ctx context.Context, t *Task) error
	Delete(ctx context.Context, ids []string) error
	UsersByIDs(ctx context.Context, ids []string) ([]identity.User, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) WithTx(tx *gorm.DB) Repository {
	return &gormRepository{db: tx}
}

func (r *gormRepository) Get(ctx context.Context, id string) (*Task, error) {
	var t Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *gormRepository) List(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *gormRepository) Create(ctx context.Context, t *Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *gormRepository) Save(ctx context.Context, t *Task) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *gormRepository) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&Task{}).Error
}

func (r *gormRepository) UsersByIDs(ctx context.Context, ids []string) ([]identity.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []identity.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
