package memstorage

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/ovalstats/cricket-data-api/internal/domain/user"
	"github.com/ovalstats/cricket-data-api/internal/ierr"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository holds the administrative accounts. There is exactly one,
// seeded from configuration at startup; nothing is hardcoded in source.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*user.User
}

func NewUserRepository(adminUsername, adminPassword string) (*UserRepository, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	repo := &UserRepository{
		users: make(map[string]*user.User),
	}
	adminUser := &user.User{
		ID:           uuid.New(),
		Username:     adminUsername,
		PasswordHash: string(hashedPassword),
		Role:         "admin",
	}
	repo.users[strings.ToLower(adminUser.Username)] = adminUser

	return repo, nil
}

var _ user.Repository = (*UserRepository)(nil)

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[strings.ToLower(username)]
	if !ok {
		return nil, ierr.ErrNotFound
	}

	userCopy := *u
	return &userCopy, nil
}

func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
