package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActionType(t *testing.T) {
	for action, name := range actionNames {
		parsed, ok := ParseActionType(name)
		require.True(t, ok, name)
		assert.Equal(t, action, parsed)
	}

	_, ok := ParseActionType("no_such_action")
	assert.False(t, ok)
	assert.Equal(t, "unknown", ActionType(999).String())
}

func TestTransferActionFormat(t *testing.T) {
	action := TransferAction{
		Source:   ActionTypeAuctionRefundTransfer,
		FollowID: "8ef8ac2e-97b2-4756-bc7c-8a83b5a42dcb",
	}

	memo, err := action.Format()
	require.Nil(t, err)

	decoded, err := DecodeTransferAction(memo)
	require.Nil(t, err)
	assert.Equal(t, action.Source, decoded.Source)
	assert.Equal(t, action.FollowID, decoded.FollowID)
}
