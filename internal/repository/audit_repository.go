package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/service"
)

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) service.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
