package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tijani-web/flowpitch-backend/internal/model"
	"github.com/tijani-web/flowpitch-backend/internal/repository"
)

func seedMember(t *testing.T, db *gorm.DB, project *model.Project, user *model.User, role string) *model.ProjectMember {
	t.Helper()
	member := &model.ProjectMember{
		ProjectID: project.ID,
		UserID:    user.ID,
		Role:      role,
	}
	require.NoError(t, db.Create(member).Error)
	return member
}

func TestRoleFor(t *testing.T) {
	db := newTestDB(t)
	members := repository.NewMemberRepository(db)

	owner := seedUser(t, db, "owner")
	project := seedProject(t, db, owner, model.VisibilityPrivate)
	editor := seedUser(t, db, "editor")
	seedMember(t, db, project, editor, model.RoleEditor)
	outsider := seedUser(t, db, "outsider")

	ctx := context.Background()

	role, err := members.RoleFor(ctx, project, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleOwner, role)

	role, err = members.RoleFor(ctx, project, editor.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleEditor, role)

	role, err = members.RoleFor(ctx, project, outsider.ID)
	require.NoError(t, err)
	assert.Empty(t, role)

	role, err = members.RoleFor(ctx, project, uuid.Nil)
	require.NoError(t, err)
	assert.Empty(t, role)
}

func TestCanView(t *testing.T) {
	db := newTestDB(t)
	members := repository.NewMemberRepository(db)

	owner := seedUser(t, db, "owner")
	private := seedProject(t, db, owner, model.VisibilityPrivate)
	public := seedProject(t, db, owner, model.VisibilityPublic)
	member := seedUser(t, db, "member")
	seedMember(t, db, private, member, model.RoleViewer)
	outsider := seedUser(t, db, "outsider")

	ctx := context.Background()

	cases := []struct {
		name    string
		project *model.Project
		caller  uuid.UUID
		want    bool
	}{
		{"public project, anonymous", public, uuid.Nil, true},
		{"public project, outsider", public, outsider.ID, true},
		{"private project, anonymous", private, uuid.Nil, false},
		{"private project, outsider", private, outsider.ID, false},
		{"private project, member", private, member.ID, true},
		{"private project, owner", private, owner.ID, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := members.CanView(ctx, tc.project, tc.caller)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestFindByProjectAndEmail(t *testing.T) {
	db := newTestDB(t)
	members := repository.NewMemberRepository(db)

	owner := seedUser(t, db, "owner")
	project := seedProject(t, db, owner, model.VisibilityPrivate)
	alice := seedUser(t, db, "alice")
	seedMember(t, db, project, alice, model.RoleMember)

	ctx := context.Background()

	row, err := members.FindByProjectAndEmail(ctx, project.ID, alice.Email)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, alice.ID, row.UserID)

	row, err = members.FindByProjectAndEmail(ctx, project.ID, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestUpdateRoleAndRemove(t *testing.T) {
	db := newTestDB(t)
	members := repository.NewMemberRepository(db)

	owner := seedUser(t, db, "owner")
	project := seedProject(t, db, owner, model.VisibilityPrivate)
	alice := seedUser(t, db, "alice")
	member := seedMember(t, db, project, alice, model.RoleMember)

	ctx := context.Background()

	require.NoError(t, members.UpdateRole(ctx, member.ID, model.RoleAdmin))
	updated, err := members.GetByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, updated.Role)

	require.NoError(t, members.Remove(ctx, member.ID))
	gone, err := members.GetByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
