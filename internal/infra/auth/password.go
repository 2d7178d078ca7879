// Package auth はパスワードハッシュとアクセストークン発行の実装。
package auth

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type BcryptHasher struct {
	cost int
}

// costが範囲外ならbcrypt.DefaultCost
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", errors.Wrap(err, "bcrypt hash")
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
