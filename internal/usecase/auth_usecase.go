package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// パスワードのハッシュ化と照合の約束
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) bool
}

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(u model.User) (token string, expiresAt time.Time, err error)
}

type RegisterInput struct {
	Username string
	Password string
	Name     string
	Email    string
	Phone    *string
	Address  *string
	City     *string
	State    *string
	Pincode  *string
	IsAdmin  bool
}

type LoginInput struct {
	Username string
	Password string
}

type AccessToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AuthOutput struct {
	User  model.User  `json:"user"`
	Token AccessToken `json:"token"`
}

type CheckAdminOutput struct {
	IsAdmin bool `json:"is_admin"`
}

type AuthUsecase struct {
	users  repo.UserRepository
	hasher PasswordHasher
	issuer AccessTokenIssuer
	log    *slog.Logger
}

// DI
func NewAuthUsecase(users repo.UserRepository, hasher PasswordHasher, issuer AccessTokenIssuer, log *slog.Logger) *AuthUsecase {
	return &AuthUsecase{users: users, hasher: hasher, issuer: issuer, log: log}
}

// 会員登録。登録後そのままログイン状態にする
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (AuthOutput, error) {
	in.IsAdmin = false
	created, err := u.createUser(ctx, in)
	if err != nil {
		return AuthOutput{}, err
	}
	return u.issue(created)
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (AuthOutput, error) {
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return AuthOutput{}, NewHTTPError(http.StatusBadRequest, "username and password required")
	}

	user, err := u.users.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if errors.Is(err, repo.ErrNotFound) {
		return AuthOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return AuthOutput{}, repoError(ctx, u.log, err, "")
	}

	//パスワード照合
	if !u.hasher.Verify(in.Password, user.Password) {
		return AuthOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	return u.issue(user)
}

func (u *AuthUsecase) Me(ctx context.Context, userID int64) (model.User, error) {
	if userID <= 0 {
		return model.User{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return model.User{}, repoError(ctx, u.log, err, "")
	}
	return user, nil
}

func (u *AuthUsecase) CheckAdmin(ctx context.Context, userID int64) (CheckAdminOutput, error) {
	user, err := u.Me(ctx, userID)
	if err != nil {
		return CheckAdminOutput{}, err
	}
	return CheckAdminOutput{IsAdmin: user.IsAdmin}, nil
}

// 入力チェック→ハッシュ化→保存。管理者によるユーザー作成でも使う
func (u *AuthUsecase) createUser(ctx context.Context, in RegisterInput) (model.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	name := strings.TrimSpace(in.Name)
	if username == "" || in.Password == "" || name == "" || email == "" {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "username, password, name and email are required")
	}

	//同じusernameは登録できない
	if _, err := u.users.FindByUsername(ctx, username); err == nil {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "username already exists")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return model.User{}, repoError(ctx, u.log, err, "")
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		u.log.ErrorContext(ctx, "hash password", slog.Any("error", err))
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	created, err := u.users.Create(ctx, model.User{
		Username: username,
		Password: hashed,
		Name:     name,
		Email:    email,
		Phone:    in.Phone,
		Address:  in.Address,
		City:     in.City,
		State:    in.State,
		Pincode:  in.Pincode,
		IsAdmin:  in.IsAdmin,
	})
	if errors.Is(err, repo.ErrDuplicate) {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "username or email already exists")
	}
	if err != nil {
		return model.User{}, repoError(ctx, u.log, err, "")
	}
	return created, nil
}

func (u *AuthUsecase) issue(user model.User) (AuthOutput, error) {
	token, exp, err := u.issuer.Issue(user)
	if err != nil {
		u.log.Error("issue access token", slog.Any("error", err), slog.Int64("user_id", user.ID))
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return AuthOutput{
		User:  user,
		Token: AccessToken{AccessToken: token, ExpiresAt: exp},
	}, nil
}
