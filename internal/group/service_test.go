package group

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var invitationColumns = []string{"id", "group_id", "inviter_id", "code", "expires_at", "used_by", "created_at"}

func setupInviteTest(t *testing.T, frozen time.Time) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewService(NewRepository(db), nil)
	svc.now = func() time.Time { return frozen }

	return svc, mock
}

func TestJoinByCodeExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, mock := setupInviteTest(t, now)

	code := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM group_invitations").
		WithArgs(code).
		WillReturnRows(sqlmock.NewRows(invitationColumns).
			AddRow(1, 7, 2, code.String(), now.Add(-time.Hour), nil, now.Add(-8*24*time.Hour)))

	_, err := svc.JoinByCode(context.Background(), 3, code)
	assert.ErrorIs(t, err, ErrInvitationExpired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinByCodeAlreadyUsed(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, mock := setupInviteTest(t, now)

	code := uuid.New()
	usedBy := int64(9)
	mock.ExpectQuery("SELECT (.+) FROM group_invitations").
		WithArgs(code).
		WillReturnRows(sqlmock.NewRows(invitationColumns).
			AddRow(1, 7, 2, code.String(), now.Add(time.Hour), usedBy, now.Add(-time.Hour)))

	_, err := svc.JoinByCode(context.Background(), 3, code)
	assert.ErrorIs(t, err, ErrInvitationUsed)
}

func TestJoinByCodeNotFound(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, mock := setupInviteTest(t, now)

	code := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM group_invitations").
		WithArgs(code).
		WillReturnRows(sqlmock.NewRows(invitationColumns))

	_, err := svc.JoinByCode(context.Background(), 3, code)
	assert.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestInvitationExpiryBoundary(t *testing.T) {
	expiry := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	inv := &Invitation{ExpiresAt: expiry}

	assert.False(t, inv.Expired(expiry), "an invitation is still usable at the exact expiry instant")
	assert.True(t, inv.Expired(expiry.Add(time.Second)))
	assert.False(t, inv.Used())

	usedBy := int64(4)
	inv.UsedBy = &usedBy
	assert.True(t, inv.Used())
}
