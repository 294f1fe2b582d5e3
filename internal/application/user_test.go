package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"click2label/internal/domain/entity"
	"click2label/internal/infrastructure/storage"
)

func TestUserService_BeginLabellingAndCancel(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.BeginLabelling(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateLabelling, user.State)

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestUserService_SetState(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetState(ctx, 2, 20, entity.StateLabelling)
	require.NoError(t, err)
	require.Equal(t, entity.StateLabelling, user.State)
}
