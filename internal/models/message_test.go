package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationKeySymmetric(t *testing.T) {
	a := "0b4e2f7a-9d1c-4f6e-8a3b-5c7d9e1f2a3b"
	b := "f1a2b3c4-d5e6-4789-a0b1-c2d3e4f5a6b7"

	k1, err := ConversationKey(a, b)
	require.NoError(t, err)
	k2, err := ConversationKey(b, a)
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.Equal(t, a+"_"+b, k1)
}

func TestConversationKeyRejectsSelf(t *testing.T) {
	_, err := ConversationKey("same-id", "same-id")
	assert.ErrorIs(t, err, ErrSelfConversation)
}

func TestConversationKeyRejectsEmptyParticipant(t *testing.T) {
	_, err := ConversationKey("", "other")
	assert.Error(t, err)
	_, err = ConversationKey("other", "")
	assert.Error(t, err)
}
