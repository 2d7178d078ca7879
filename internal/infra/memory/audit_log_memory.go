package memory

import (
	"context"
	"slices"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type AuditLogMemoryRepository struct {
	scope
}

func (r *AuditLogMemoryRepository) Create(ctx context.Context, log model.AuditLog) (model.AuditLog, error) {
	err := r.write(func(db *database) error {
		log.ID = db.auditLogs.nextID()
		if log.CreatedAt.IsZero() {
			log.CreatedAt = r.now()
		}
		db.auditLogs.put(log.ID, log)
		return nil
	})
	return log, err
}

func (r *AuditLogMemoryRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	var out []model.AuditLog
	err := r.read(func(db *database) error {
		matched := db.auditLogs.filter(func(l model.AuditLog) bool {
			switch {
			case f.ActorUserID != nil && l.ActorUserID != *f.ActorUserID:
				return false
			case f.Action != nil && l.Action != *f.Action:
				return false
			case f.ResourceType != nil && l.ResourceType != *f.ResourceType:
				return false
			case f.ResourceID != nil && l.ResourceID != *f.ResourceID:
				return false
			case f.CreatedFrom != nil && l.CreatedAt.Before(*f.CreatedFrom):
				return false
			case f.CreatedTo != nil && l.CreatedAt.After(*f.CreatedTo):
				return false
			}
			return true
		})
		slices.Reverse(matched)

		limit, offset := f.Window()
		if offset >= len(matched) {
			out = []model.AuditLog{}
			return nil
		}
		out = matched[offset:min(offset+limit, len(matched))]
		return nil
	})
	return out, err
}

var _ repo.AuditLogRepository = (*AuditLogMemoryRepository)(nil)
