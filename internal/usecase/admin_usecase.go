package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"storefront/internal/analytics"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// 管理画面（ユーザー管理・集計）の業務ロジック
type AdminUsecase struct {
	users      repo.UserRepository
	auditLogs  repo.AuditLogRepository
	auth       *AuthUsecase
	aggregator *analytics.Aggregator
	audit      *Auditor
	log        *slog.Logger
}

// DI
func NewAdminUsecase(repos repo.Repos, auth *AuthUsecase, agg *analytics.Aggregator, audit *Auditor, log *slog.Logger) *AdminUsecase {
	return &AdminUsecase{
		users:      repos.Users,
		auditLogs:  repos.AuditLogs,
		auth:       auth,
		aggregator: agg,
		audit:      audit,
		log:        log,
	}
}

func (u *AdminUsecase) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, repoError(ctx, u.log, err, "")
	}
	return users, nil
}

// 管理者はisAdmin付きでユーザーを作れる
func (u *AdminUsecase) CreateUser(ctx context.Context, adminUserID int64, in RegisterInput) (model.User, error) {
	created, err := u.auth.createUser(ctx, in)
	if err != nil {
		return model.User{}, err
	}
	u.audit.Record(ctx, adminUserID, model.AuditActionCreate, model.AuditResourceUser, created.ID, nil, created)
	return created, nil
}

// 自分自身は削除できない
func (u *AdminUsecase) DeleteUser(ctx context.Context, adminUserID int64, targetUserID int64) error {
	if targetUserID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if targetUserID == adminUserID {
		return NewHTTPError(http.StatusBadRequest, "cannot delete yourself")
	}

	existed, err := u.users.Delete(ctx, targetUserID)
	if err != nil {
		return repoError(ctx, u.log, err, "")
	}
	if !existed {
		return NewHTTPError(http.StatusNotFound, "user not found")
	}

	u.audit.Record(ctx, adminUserID, model.AuditActionDelete, model.AuditResourceUser, targetUserID, nil, nil)
	return nil
}

// 自分の管理者権限は外せない
func (u *AdminUsecase) SetAdmin(ctx context.Context, adminUserID int64, targetUserID int64, isAdmin bool) (model.User, error) {
	if targetUserID <= 0 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if targetUserID == adminUserID && !isAdmin {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "cannot remove your own admin privileges")
	}

	updated, err := u.users.Update(ctx, targetUserID, repo.UserPatch{IsAdmin: &isAdmin})
	if err != nil {
		return model.User{}, repoError(ctx, u.log, err, "user not found")
	}

	u.audit.Record(ctx, adminUserID, model.AuditActionSetAdmin, model.AuditResourceUser, targetUserID,
		nil, map[string]bool{"is_admin": updated.IsAdmin})
	return updated, nil
}

// timeframe: 7d / 30d / 90d（空なら7d）
func (u *AdminUsecase) Analytics(ctx context.Context, timeframe string) (analytics.Dashboard, error) {
	if _, ok := analytics.ParseTimeframe(timeframe); !ok {
		return analytics.Dashboard{}, NewHTTPError(http.StatusBadRequest, "invalid timeframe")
	}
	d, err := u.aggregator.Dashboard(ctx, timeframe)
	if err != nil {
		return analytics.Dashboard{}, repoError(ctx, u.log, err, "")
	}
	return d, nil
}

// 監査ログ一覧の絞り込み条件（空文字・nilは条件にしない）
type AuditLogQuery struct {
	ActorUserID  *int64
	Action       string
	ResourceType string
	ResourceID   *int64
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

var (
	auditActions   = []model.AuditAction{model.AuditActionCreate, model.AuditActionUpdate, model.AuditActionDelete, model.AuditActionSetAdmin}
	auditResources = []model.AuditResourceType{model.AuditResourceProduct, model.AuditResourceUser, model.AuditResourceCategory, model.AuditResourceBanner}
)

// 新しい順。limitは1〜200（範囲外は50）
func (u *AdminUsecase) ListAuditLogs(ctx context.Context, q AuditLogQuery) ([]model.AuditLog, error) {
	f := repo.AuditLogFilter{
		ActorUserID: q.ActorUserID,
		ResourceID:  q.ResourceID,
		CreatedFrom: q.From,
		CreatedTo:   q.To,
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
	if q.Action != "" {
		a := model.AuditAction(strings.ToUpper(q.Action))
		if !slices.Contains(auditActions, a) {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid action")
		}
		f.Action = &a
	}
	if q.ResourceType != "" {
		r := model.AuditResourceType(strings.ToLower(q.ResourceType))
		if !slices.Contains(auditResources, r) {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid resource_type")
		}
		f.ResourceType = &r
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return nil, NewHTTPError(http.StatusBadRequest, "from must be before to")
	}
	if q.Offset < 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid offset")
	}

	logs, err := u.auditLogs.List(ctx, f)
	if err != nil {
		return nil, repoError(ctx, u.log, err, "")
	}
	return logs, nil
}
