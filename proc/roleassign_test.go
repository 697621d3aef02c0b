package proc

import (
	"context"
	"errors"
	"testing"

	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/roleassign"
	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/sys"
)

type fakeRoleAPI struct {
	added, removed []snowflake.ID
	failRemove     snowflake.ID
}

func (f *fakeRoleAPI) AddMemberRole(_, _, roleID snowflake.ID, _ ...rest.RequestOpt) error {
	f.added = append(f.added, roleID)
	return nil
}

func (f *fakeRoleAPI) RemoveMemberRole(_, _, roleID snowflake.ID, _ ...rest.RequestOpt) error {
	if roleID == f.failRemove {
		return errors.New("missing access")
	}
	f.removed = append(f.removed, roleID)
	return nil
}

func TestApplyRoleChange(t *testing.T) {
	api := &fakeRoleAPI{}
	err := applyRoleChange(context.Background(), api, 1, 2, roleassign.Change{Add: 12, Remove: []snowflake.ID{11, 50}})
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{12}, api.added)
	assert.Equal(t, []snowflake.ID{11, 50}, api.removed)

	api = &fakeRoleAPI{}
	require.NoError(t, applyRoleChange(context.Background(), api, 1, 2, roleassign.Change{Remove: []snowflake.ID{11}}))
	assert.Empty(t, api.added, "a reset adds nothing")
}

func TestApplyRoleChangeKeepsGoingAfterFailure(t *testing.T) {
	api := &fakeRoleAPI{failRemove: 11}
	err := applyRoleChange(context.Background(), api, 1, 2, roleassign.Change{Add: 12, Remove: []snowflake.ID{11, 50}})
	assert.Error(t, err)
	assert.Equal(t, []snowflake.ID{50}, api.removed)
	assert.Equal(t, []snowflake.ID{12}, api.added)
}

func TestRoleMessageTracking(t *testing.T) {
	saved := sys.GlobalSettings
	t.Cleanup(func() { sys.GlobalSettings = saved })
	sys.GlobalSettings = &sys.Settings{RoleAssignment: map[string]roleassign.Group{
		"lab": {Roles: []roleassign.ServerRole{{RoleID: 11, Emoji: "✅"}}},
		"age": {Roles: []roleassign.ServerRole{{RoleID: 21, Emoji: "🎂"}}},
	}}

	assert.Equal(t, []string{"age", "lab"}, RoleGroupIdentifiers())

	trackRoleMessage(100, "lab")
	id, g, ok := roleGroupForMessage(100)
	require.True(t, ok)
	assert.Equal(t, "lab", id)
	assert.Equal(t, snowflake.ID(11), g.Roles[0].RoleID)

	// Sending the message again replaces the old one.
	trackRoleMessage(200, "lab")
	_, _, ok = roleGroupForMessage(100)
	assert.False(t, ok)
	_, _, ok = roleGroupForMessage(200)
	assert.True(t, ok)

	_, _, ok = roleGroupForMessage(300)
	assert.False(t, ok)
}
