package auth

import (
	"strconv"
	"time"

	"storefront/internal/clock"
	"storefront/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

// HS256のアクセストークンを発行する。
// claims: sub(ユーザーID) / role(USER|ADMIN) / iat / exp
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewJWTIssuer(secret string, ttl time.Duration, c clock.Clock) (*JWTIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must be provided")
	}
	if ttl <= 0 {
		return nil, errors.Errorf("invalid access token ttl: %s", ttl)
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, clock: c}, nil
}

func (i *JWTIssuer) Issue(u model.User) (string, time.Time, error) {
	now := i.clock.Now()
	exp := now.Add(i.ttl)

	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(u.ID, 10),
		"role": string(u.Role()),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign access token")
	}
	return signed, exp, nil
}
