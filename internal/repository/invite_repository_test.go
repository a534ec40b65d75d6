package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tijani-web/flowpitch-backend/internal/model"
	"github.com/tijani-web/flowpitch-backend/internal/repository"
)

func seedInvite(t *testing.T, db *gorm.DB, project *model.Project, inviter *model.User, email string, expiresAt time.Time) *model.ProjectInvite {
	t.Helper()
	token, err := repository.GenerateToken()
	require.NoError(t, err)
	invite := &model.ProjectInvite{
		Token:     token,
		Email:     email,
		Role:      model.RoleMember,
		ProjectID: project.ID,
		InvitedBy: inviter.ID,
		ExpiresAt: expiresAt,
	}
	require.NoError(t, db.Create(invite).Error)
	return invite
}

func TestInviteAccept_CreatesMembership(t *testing.T) {
	db := newTestDB(t)
	invites := repository.NewInviteRepository(db)
	members := repository.NewMemberRepository(db)

	owner := seedUser(t, db, "owner")
	project := seedProject(t, db, owner, model.VisibilityPrivate)
	invitee := seedUser(t, db, "invitee")
	invite := seedInvite(t, db, project, owner, invitee.Email, time.Now().Add(model.InviteTTL))

	ctx := context.Background()
	member, err := invites.Accept(ctx, invite.Token, invitee)
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, model.RoleMember, member.Role)
	assert.Equal(t, project.ID, member.ProjectID)

	row, err := members.FindByProjectAndUser(ctx, project.ID, invitee.ID)
	require.NoError(t, err)
	require.NotNil(t, row)

	stored, err := invites.FindByToken(ctx, invite.Token)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Accepted)
	assert.NotNil(t, stored.AcceptedAt)
}

func TestInviteAccept_SecondUseFails(t *testing.T) {
	db := newTestDB(t)
	invites := repository.NewInviteRepository(db)

	owner := seedUser(t, db, "owner")
	project := seedProject(t, db, owner, model.VisibilityPrivate)
	invitee := seedUser(t, db, "invitee")
	invite := seedInvite(t, db, project, owner, invitee.Email, time.Now().Add(model.InviteTTL))

	ctx := context.Background()
	_, err := invites.Accept(ctx, invite.Token, invitee)
	require.NoError(t, err)

	_, err = invites.Accept(ctx, invite.Token, invitee)
	assert.ErrorIs(t, err, repository.ErrInviteInvalid)
}

func TestInviteAccept_ExpiredFails(t *testing.T) {
	db := newTestDB(t)
	invites := repository.NewInviteRepository(db)
	members := repository.NewMemberRepository(db)

	owner := seedUser(t, db, "owner")
	project := seedProject(t, db, owner, model.VisibilityPrivate)
	invitee := seedUser(t, db, "invitee")
	invite := seedInvite(t, db, project, owner, invitee.Email, time.Now().Add(-time.Hour))

	ctx := context.Background()
	_, err := invites.Accept(ctx, invite.Token, invitee)
	assert.ErrorIs(t, err, repository.ErrInviteInvalid)

	// No membership row appears on a failed acceptance.
	row, err := members.FindByProjectAndUser(ctx, project.ID, invitee.ID)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestInviteAccept_EmailMismatchFails(t *testing.T) {
	db := newTestDB(t)
	invites := repository.NewInviteRepository(db)

	owner := seedUser(t, db, "owner")
	project := seedProject(t, db, owner, model.VisibilityPrivate)
	invite := seedInvite(t, db, project, owner, "someone-else@example.com", time.Now().Add(model.InviteTTL))

	intruder := seedUser(t, db, "intruder")
	_, err := invites.Accept(context.Background(), invite.Token, intruder)
	assert.ErrorIs(t, err, repository.ErrInviteInvalid)
}

func TestInviteAccept_UnknownTokenFails(t *testing.T) {
	db := newTestDB(t)
	invites := repository.NewInviteRepository(db)
	user := seedUser(t, db, "user")

	_, err := invites.Accept(context.Background(), "no-such-token", user)
	assert.ErrorIs(t, err, repository.ErrInviteInvalid)
}
