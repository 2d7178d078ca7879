package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

// 監査ログの絞り込み条件。nilの項目は条件にしない
type AuditLogFilter struct {
	ActorUserID  *int64
	Action       *model.AuditAction
	ResourceType *model.AuditResourceType
	ResourceID   *int64
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}

const (
	DefaultAuditLogLimit = 50
	MaxAuditLogLimit     = 200
)

// 0以下や上限超えはデフォルトに丸める
func (f AuditLogFilter) Window() (limit, offset int) {
	limit = f.Limit
	if limit <= 0 || limit > MaxAuditLogLimit {
		limit = DefaultAuditLogLimit
	}
	return limit, max(f.Offset, 0)
}

type AuditLogRepository interface {
	// idとcreated_at（ゼロ値なら）はストアが埋める
	Create(ctx context.Context, log model.AuditLog) (model.AuditLog, error)
	// 新しい順
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
