package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoterKeyPrecedence(t *testing.T) {
	user := Caller{Kind: CallerUser, UserID: 7, IP: "10.0.0.1"}
	assert.Equal(t, "user:7", user.VoterKey())

	guest := Anonymous("10.0.0.1")
	assert.Equal(t, "ip:10.0.0.1", guest.VoterKey())

	// 同一出口 IP 的两个游客是同一个 voter
	assert.Equal(t, guest.VoterKey(), Anonymous("10.0.0.1").VoterKey())
}

func TestCallerRoles(t *testing.T) {
	assert.False(t, Anonymous("x").Authenticated())
	assert.Nil(t, Anonymous("x").UserIDPtr())

	admin := Caller{Kind: CallerAdmin, UserID: 1}
	assert.True(t, admin.Authenticated())
	assert.True(t, admin.IsAdmin())
	assert.Equal(t, uint64(1), *admin.UserIDPtr())

	assert.False(t, Caller{Kind: CallerUser, UserID: 2}.IsAdmin())
	assert.False(t, Caller{Kind: CallerAdmin}.IsAdmin(), "admin without id is not trusted")
}

func TestParseVoteType(t *testing.T) {
	v, ok := ParseVoteType("upvote")
	assert.True(t, ok)
	assert.Equal(t, Upvote, v)

	_, ok = ParseVoteType("sideways")
	assert.False(t, ok)
	_, ok = ParseVoteType("")
	assert.False(t, ok)
}
