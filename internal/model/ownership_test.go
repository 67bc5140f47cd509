package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCreator(t *testing.T) {
	tests := []struct {
		name    string
		creator *User
		current *User
		want    bool
	}{
		{
			name:    "cross-shape id match: creator _id vs current id",
			creator: &User{ObjectID: "A", Email: "a@x.com"},
			current: &User{ID: "A"},
			want:    true,
		},
		{
			name:    "cross-shape id match: creator id vs current _id",
			creator: &User{ID: "A"},
			current: &User{ObjectID: "A", Email: "other@x.com"},
			want:    true,
		},
		{
			name:    "primary key match",
			creator: &User{ObjectID: "A"},
			current: &User{ObjectID: "A"},
			want:    true,
		},
		{
			name:    "alternate key match",
			creator: &User{ID: "A"},
			current: &User{ID: "A"},
			want:    true,
		},
		{
			name:    "email match when ids differ in shape",
			creator: &User{ID: "B", Email: "b@x.com"},
			current: &User{ObjectID: "C", Email: "b@x.com"},
			want:    true,
		},
		{
			name:    "no overlap on any field",
			creator: &User{ObjectID: "A", ID: "A", Email: "a@x.com"},
			current: &User{ObjectID: "B", ID: "B", Email: "b@x.com"},
			want:    false,
		},
		{
			name:    "email comparison is case-sensitive",
			creator: &User{Email: "a@x.com"},
			current: &User{Email: "A@X.COM"},
			want:    false,
		},
		{
			name:    "empty ids never match each other",
			creator: &User{Email: "a@x.com"},
			current: &User{Email: "b@x.com"},
			want:    false,
		},
		{
			name:    "nil creator returns false without panicking",
			creator: nil,
			current: &User{ID: "A"},
			want:    false,
		},
		{
			name:    "nil current returns false without panicking",
			creator: &User{ID: "A"},
			current: nil,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCreator(tt.creator, tt.current))
		})
	}
}

func TestIsTeamMember(t *testing.T) {
	project := &Project{
		TeamMembers: []User{
			{ObjectID: "M1", Email: "m1@x.com"},
			{ID: "M2"},
		},
	}

	assert.True(t, IsTeamMember(project, &User{ID: "M1"}), "cross-shape member match")
	assert.True(t, IsTeamMember(project, &User{ObjectID: "M2"}))
	assert.True(t, IsTeamMember(project, &User{Email: "m1@x.com"}))
	assert.False(t, IsTeamMember(project, &User{ID: "stranger"}))
	assert.False(t, IsTeamMember(nil, &User{ID: "M1"}))
	assert.False(t, IsTeamMember(project, nil))
}

func TestCanModify(t *testing.T) {
	creator := &User{ObjectID: "A", Email: "a@x.com"}
	project := &Project{ObjectID: "p1", Creator: creator}

	assert.True(t, CanModify(project, &User{ID: "A"}), "creator may modify")
	assert.True(t, CanModify(project, &User{ID: "Z", Role: RoleAdmin}), "admin may modify")
	assert.False(t, CanModify(project, &User{ID: "Z", Role: RoleUser}))
	assert.False(t, CanModify(project, &User{ID: "Z", Role: "admin"}), "role match is case-sensitive")
	assert.False(t, CanModify(&Project{}, &User{ID: "A"}), "missing creator never matches")
	assert.False(t, CanModify(nil, &User{ID: "A"}))
	assert.False(t, CanModify(project, nil))
}
