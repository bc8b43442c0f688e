package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/project-tracker/internal/domain"
)

func TestCanModify(t *testing.T) {
	policy := NewPolicy()
	owner := &domain.User{ID: 1, Access: domain.AccessUser}
	other := &domain.User{ID: 2, Access: domain.AccessUser}
	admin := &domain.User{ID: 3, Access: domain.AccessAdmin}

	assert.True(t, policy.CanModify(owner, 1))
	assert.False(t, policy.CanModify(other, 1))
	assert.True(t, policy.CanModify(admin, 1))
	assert.False(t, policy.CanModify(nil, 1))
}

func TestCanManagePersonnel(t *testing.T) {
	policy := NewPolicy()
	project := &domain.Project{ID: 10, CreatorID: 1}

	assert.True(t, policy.CanManagePersonnel(&domain.User{ID: 1}, project))
	assert.False(t, policy.CanManagePersonnel(&domain.User{ID: 2}, project))
	assert.True(t, policy.CanManagePersonnel(&domain.User{ID: 2, Access: domain.AccessAdmin}, project))
	assert.False(t, policy.CanManagePersonnel(nil, project))
	assert.False(t, policy.CanManagePersonnel(&domain.User{ID: 1}, nil))
}

func TestCanEditUser(t *testing.T) {
	policy := NewPolicy()

	assert.True(t, policy.CanEditUser(&domain.User{ID: 5}, 5))
	assert.False(t, policy.CanEditUser(&domain.User{ID: 5}, 6))
	assert.True(t, policy.CanEditUser(&domain.User{ID: 5, Access: domain.AccessAdmin}, 6))
}

func TestCanChangeAccess(t *testing.T) {
	policy := NewPolicy()

	assert.False(t, policy.CanChangeAccess(&domain.User{ID: 1, Access: domain.AccessUser}))
	assert.True(t, policy.CanChangeAccess(&domain.User{ID: 1, Access: domain.AccessAdmin}))
}
