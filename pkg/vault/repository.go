package vault

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&TokenRecord{})
}

func (r *Repository) Save(ctx context.Context, record TokenRecord) error {
	return r.db.WithContext(ctx).Create(&record).Error
}

// LookupValue resolves token -> original value.
func (r *Repository) LookupValue(ctx context.Context, token string) (string, error) {
	var record TokenRecord
	if err := r.db.WithContext(ctx).First(&record, "token = ?", token).Error; err != nil {
		return "", err
	}
	return record.Value, nil
}

// LookupToken resolves value -> token, the reverse index that keeps one value
// bound to exactly one token for the life of the vault.
func (r *Repository) LookupToken(ctx context.Context, value string) (string, error) {
	var record TokenRecord
	if err := r.db.WithContext(ctx).First(&record, "value = ?", value).Error; err != nil {
		return "", err
	}
	return record.Token, nil
}

func (r *Repository) HasToken(ctx context.Context, token string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&TokenRecord{}).Where("token = ?", token).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&TokenRecord{}).Count(&count).Error
	return count, err
}
