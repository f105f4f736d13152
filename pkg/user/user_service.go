package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Service interface {
	GetCurrentUser(ctx context.Context) (User, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	// FindOrCreateByEmail returns the user with the given email, creating the
	// account on first login with the profile data reported by the identity
	// provider.
	FindOrCreateByEmail(ctx context.Context, email string, displayName string, photoUrl string) (User, error)
}

type UserServiceImpl struct {
	repo Repo
}

func NewUserService(repo Repo) *UserServiceImpl {
	return &UserServiceImpl{repo: repo}
}

func (u *UserServiceImpl) GetCurrentUser(ctx context.Context) (User, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return u.GetUser(ctx, userId)
}

func (u *UserServiceImpl) GetUser(ctx context.Context, id int) (User, error) {
	return u.repo.GetUser(ctx, id)
}

func (u *UserServiceImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	return u.repo.GetUserByUid(ctx, uid)
}

func (u *UserServiceImpl) FindOrCreateByEmail(ctx context.Context, email string, displayName string, photoUrl string) (User, error) {
	existing, err := u.repo.GetUserByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return User{}, fmt.Errorf("failed to look up user by email: %w", err)
	}

	newUser := User{
		Uid:         uuid.NewString(),
		Email:       email,
		DisplayName: displayName,
		PhotoUrl:    photoUrl,
	}
	id, err := u.repo.CreateUser(ctx, newUser)
	if err != nil {
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}
	newUser.Id = id
	return newUser, nil
}
