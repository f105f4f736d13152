package test_utils

import (
	"context"

	"github.com/guswawan/weekload/pkg/user"
)

// TestUser is the fixture account used across package tests.
var TestUser = user.User{
	Id:          123,
	Uid:         "11111111-2222-3333-4444-555555555555",
	Email:       "test@weekload.dev",
	DisplayName: "Test User",
	PhotoUrl:    "",
}

// ContextWithTestUser returns ctx carrying TestUser as the current user.
func ContextWithTestUser(ctx context.Context) context.Context {
	return user.WithUser(ctx, TestUser)
}
