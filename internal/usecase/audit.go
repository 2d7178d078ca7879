package usecase

import (
	"context"
	"encoding/json"
	"log/slog"

	"storefront/internal/clock"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// 管理者操作の監査ログ。slogに出し、ストアにも保存する
type Auditor struct {
	logs  repo.AuditLogRepository
	log   *slog.Logger
	clock clock.Clock
}

// DI
func NewAuditor(repos repo.Repos, log *slog.Logger, c clock.Clock) *Auditor {
	return &Auditor{logs: repos.AuditLogs, log: log, clock: c}
}

// before/afterはJSONにして残す。nilなら空文字。
// 操作自体は成功済みなので、保存に失敗してもエラーログだけ出して返す
func (a *Auditor) Record(ctx context.Context, actorID int64, action model.AuditAction, resource model.AuditResourceType, resourceID int64, before, after any) model.AuditLog {
	entry := model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: resource,
		ResourceID:   resourceID,
		BeforeJSON:   toJSON(before),
		AfterJSON:    toJSON(after),
		CreatedAt:    a.clock.Now(),
	}

	if a.logs != nil {
		saved, err := a.logs.Create(ctx, entry)
		if err != nil {
			a.log.ErrorContext(ctx, "failed to save audit log", slog.Any("error", err))
		} else {
			entry = saved
		}
	}

	a.log.LogAttrs(ctx, slog.LevelInfo, "admin action",
		slog.Group("audit",
			slog.Int64("log_id", entry.ID),
			slog.String("action", string(entry.Action)),
			slog.String("resource", string(entry.ResourceType)),
			slog.Int64("id", entry.ResourceID),
			slog.Int64("actor", entry.ActorUserID),
			slog.String("before", entry.BeforeJSON),
			slog.String("after", entry.AfterJSON),
			slog.Time("at", entry.CreatedAt),
		),
	)
	return entry
}

func toJSON(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
