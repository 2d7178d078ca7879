package memory

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type UserMemoryRepository struct {
	scope
}

func (r *UserMemoryRepository) Create(ctx context.Context, u model.User) (model.User, error) {
	var out model.User
	err := r.write(func(db *database) error {
		if userConflicts(db, 0, u.Username, u.Email) {
			return repo.ErrDuplicate
		}
		u.ID = db.users.nextID()
		u.CreatedAt = r.now()
		u.DeletedAt = gorm.DeletedAt{}
		db.users.put(u.ID, copyUser(u))
		out = copyUser(u)
		return nil
	})
	return out, err
}

func (r *UserMemoryRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	var out model.User
	err := r.read(func(db *database) error {
		u, ok := db.users.get(id)
		if !ok || u.Deleted() {
			return repo.ErrNotFound
		}
		out = copyUser(u)
		return nil
	})
	return out, err
}

func (r *UserMemoryRepository) FindByIDWithDeleted(ctx context.Context, id int64) (model.User, error) {
	var out model.User
	err := r.read(func(db *database) error {
		u, ok := db.users.get(id)
		if !ok {
			return repo.ErrNotFound
		}
		out = copyUser(u)
		return nil
	})
	return out, err
}

func (r *UserMemoryRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	var out model.User
	err := r.read(func(db *database) error {
		found := db.users.filter(func(u model.User) bool {
			return !u.Deleted() && u.Username == username
		})
		if len(found) == 0 {
			return repo.ErrNotFound
		}
		out = copyUser(found[0])
		return nil
	})
	return out, err
}

func (r *UserMemoryRepository) List(ctx context.Context) ([]model.User, error) {
	var out []model.User
	err := r.read(func(db *database) error {
		out = mapSlice(db.users.filter(liveUser), copyUser)
		return nil
	})
	return out, err
}

func (r *UserMemoryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.read(func(db *database) error {
		n = int64(len(db.users.filter(liveUser)))
		return nil
	})
	return n, err
}

func (r *UserMemoryRepository) Update(ctx context.Context, id int64, patch repo.UserPatch) (model.User, error) {
	var out model.User
	err := r.write(func(db *database) error {
		u, ok := db.users.get(id)
		if !ok || u.Deleted() {
			return repo.ErrNotFound
		}
		patch.Apply(&u)
		if userConflicts(db, id, u.Username, u.Email) {
			return repo.ErrDuplicate
		}
		db.users.put(id, copyUser(u))
		out = copyUser(u)
		return nil
	})
	return out, err
}

// tombstoneを立て、カートと明細を消す
func (r *UserMemoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	existed := false
	err := r.write(func(db *database) error {
		u, ok := db.users.get(id)
		if !ok || u.Deleted() {
			return nil
		}
		u.DeletedAt = gorm.DeletedAt{Time: r.now(), Valid: true}
		db.users.put(id, u)

		for _, c := range db.carts.filter(func(c model.Cart) bool { return c.UserID == id }) {
			deleteCartItems(db, c.ID)
			db.carts.remove(c.ID)
		}
		existed = true
		return nil
	})
	return existed, err
}

func liveUser(u model.User) bool {
	return !u.Deleted()
}

// exceptID以外の有効ユーザーとusername/emailが被るか
func userConflicts(db *database, exceptID int64, username, email string) bool {
	clash := db.users.filter(func(u model.User) bool {
		if u.ID == exceptID || u.Deleted() {
			return false
		}
		return u.Username == username || u.Email == email
	})
	return len(clash) > 0
}
