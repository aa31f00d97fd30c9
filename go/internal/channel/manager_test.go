package channel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testManager(auctionDialer, chatDialer *fakeDialer) *Manager {
	cfg := NewManagerConfig("ws://test/auction", "ws://test/chat", "token-1")
	cfg.Auction.ReconnectBaseWait = time.Millisecond
	cfg.Auction.Dial = auctionDialer.dial
	cfg.Chat.ReconnectBaseWait = time.Millisecond
	cfg.Chat.Dial = chatDialer.dial
	return NewManager(cfg)
}

func waitForWrites(t *testing.T, conn func() *fakeConn, n int) *fakeConn {
	t.Helper()
	var c *fakeConn
	require.Eventually(t, func() bool {
		c = conn()
		return c != nil && len(c.sentTypes()) >= n
	}, time.Second, time.Millisecond)
	return c
}

func TestManagerAnnouncesOnOpen(t *testing.T) {
	auctionDialer, chatDialer := &fakeDialer{}, &fakeDialer{}
	m := testManager(auctionDialer, chatDialer)
	defer m.Close()

	scope := Scope{AuctionID: 3, LotID: 9}
	cred := Credential{Token: "token-1", UserID: 7, DisplayName: "Ana"}
	require.NoError(t, m.Open(context.Background(), scope, cred))

	auctionConn := waitForWrites(t, func() *fakeConn { return auctionDialer.conn(0) }, 1)
	require.Equal(t, []string{MsgSubscribeAuction}, auctionConn.sentTypes())
	require.Equal(t, int64(3), auctionConn.write(0).AuctionID)
	require.Equal(t, "token-1", auctionConn.write(0).Token)

	chatConn := waitForWrites(t, func() *fakeConn { return chatDialer.conn(0) }, 3)
	require.Equal(t,
		[]string{MsgJoinAuctionChat, MsgVisitLot, MsgRequestVisitorList},
		chatConn.sentTypes())
	require.Equal(t, int64(9), chatConn.write(1).LotID)
}

func TestManagerRescopeReannouncesWithNewIdentity(t *testing.T) {
	auctionDialer, chatDialer := &fakeDialer{}, &fakeDialer{}
	m := testManager(auctionDialer, chatDialer)
	defer m.Close()

	require.NoError(t, m.Open(context.Background(),
		Scope{AuctionID: 3, LotID: 9}, Credential{Token: "token-1"}))
	waitForWrites(t, func() *fakeConn { return auctionDialer.conn(0) }, 1)

	require.NoError(t, m.Rescope(context.Background(), Scope{AuctionID: 4, LotID: 20}))

	// A new connection is dialed and announced against the new scope.
	auctionConn := waitForWrites(t, func() *fakeConn { return auctionDialer.conn(1) }, 1)
	require.Equal(t, int64(4), auctionConn.write(0).AuctionID)

	chatConn := waitForWrites(t, func() *fakeConn { return chatDialer.conn(1) }, 3)
	require.Equal(t, int64(20), chatConn.write(1).LotID)
}

func TestManagerCloseAnnouncesUnsubscribe(t *testing.T) {
	auctionDialer, chatDialer := &fakeDialer{}, &fakeDialer{}
	m := testManager(auctionDialer, chatDialer)

	require.NoError(t, m.Open(context.Background(),
		Scope{AuctionID: 3, LotID: 9}, Credential{Token: "token-1"}))
	auctionConn := waitForWrites(t, func() *fakeConn { return auctionDialer.conn(0) }, 1)

	require.NoError(t, m.Close())

	types := auctionConn.sentTypes()
	require.Equal(t, MsgUnsubscribeAuction, types[len(types)-1])

	// Both event streams are gone after teardown.
	require.Nil(t, m.AuctionEvents())
	require.Nil(t, m.ChatEvents())
}

func TestManagerSendChatMessage(t *testing.T) {
	auctionDialer, chatDialer := &fakeDialer{}, &fakeDialer{}
	m := testManager(auctionDialer, chatDialer)
	defer m.Close()

	require.NoError(t, m.Open(context.Background(),
		Scope{AuctionID: 3, LotID: 9}, Credential{Token: "token-1"}))
	chatConn := waitForWrites(t, func() *fakeConn { return chatDialer.conn(0) }, 3)

	parent := int64(55)
	require.NoError(t, m.SendChatMessage("hello", &parent))

	writes := chatConn.sentTypes()
	require.Equal(t, MsgSendChatMessage, writes[len(writes)-1])

	payload, ok := chatConn.write(chatConn.writeCount() - 1).Data.(ChatSendPayload)
	require.True(t, ok)
	require.Equal(t, "hello", payload.Body)
	require.Equal(t, int64(55), *payload.ParentID)
}

func TestManagerHelpersBeforeOpen(t *testing.T) {
	m := NewManager(NewManagerConfig("ws://a", "ws://c", ""))

	require.ErrorIs(t, m.SubscribeAuction(), ErrNotConnected)
	require.ErrorIs(t, m.AnnounceVisit(), ErrNotConnected)
	require.ErrorIs(t, m.SendChatMessage("x", nil), ErrNotConnected)
	require.NoError(t, m.Close())
}

func TestScopeAndCredential(t *testing.T) {
	require.False(t, Scope{}.Valid())
	require.False(t, Scope{AuctionID: 3}.Valid())
	require.True(t, Scope{AuctionID: 3, LotID: 9}.Valid())

	require.False(t, Credential{}.Authenticated())
	require.True(t, Credential{Token: "t"}.Authenticated())
}
