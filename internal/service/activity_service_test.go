package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/Charan200529/StudentReportSystem/internal/models"
)

func TestActivityServiceRecord(t *testing.T) {
	repo := &fakeActivityLogRepo{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewActivityService(repo, validate, testLogger())

	entityID := uint(7)
	err := svc.Record(context.Background(), ActivityEntry{
		ActorID:    1,
		ActorRole:  models.RoleAdmin,
		Action:     " User.Role_Changed ",
		EntityType: "User",
		EntityID:   &entityID,
		Metadata:   map[string]interface{}{"role": "TEACHER"},
	})
	require.NoError(t, err)
	require.Len(t, repo.entries, 1)
	require.Equal(t, "user.role_changed", repo.entries[0].Action)
	require.Equal(t, "user", repo.entries[0].EntityType)

	require.Error(t, svc.Record(context.Background(), ActivityEntry{ActorID: 1, EntityType: "user"}))
	require.Error(t, svc.Record(context.Background(), ActivityEntry{ActorID: 1, Action: "user.deleted"}))
}

func TestActivityServiceListAdminOnly(t *testing.T) {
	repo := &fakeActivityLogRepo{}
	repo.entries = []models.ActivityLog{
		{ID: 1, ActorID: 1, ActorRole: "ADMIN", Action: "user.deleted", EntityType: "user"},
		{ID: 2, ActorID: 1, ActorRole: "ADMIN", Action: "course.deleted", EntityType: "course"},
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewActivityService(repo, validate, testLogger())

	result, err := svc.List(context.Background(), adminPrincipal(1), ActivityListRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(2), result.Total)
	require.Len(t, result.Entries, 2)

	filtered, err := svc.List(context.Background(), adminPrincipal(1), ActivityListRequest{Action: "user.deleted"})
	require.NoError(t, err)
	require.Len(t, filtered.Entries, 1)

	_, err = svc.List(context.Background(), teacherPrincipal(9), ActivityListRequest{})
	require.ErrorIs(t, err, ErrForbidden)
}
