package channel

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Outgoing message types
const (
	MsgSubscribeAuction   = "subscribe-auction"
	MsgUnsubscribeAuction = "unsubscribe-auction"
	MsgJoinAuctionChat    = "join-auction-chat"
	MsgVisitLot           = "visit-lot"
	MsgRequestVisitorList = "request-visitor-list"
	MsgSendChatMessage    = "send-chat-message"
)

// Scope is the identity pair both channels are bound to.
type Scope struct {
	AuctionID int64
	LotID     int64
}

// Valid reports whether the scope identifies a concrete auction and lot.
func (s Scope) Valid() bool {
	return s.AuctionID != 0 && s.LotID != 0
}

// Credential identifies the caller on every outgoing announcement.
// An empty token is a read-only viewer.
type Credential struct {
	Token       string
	UserID      int64
	DisplayName string
}

// Authenticated reports whether the credential can authorize writes.
func (c Credential) Authenticated() bool {
	return c.Token != ""
}

// Outgoing is the envelope for all client-to-server channel messages.
type Outgoing struct {
	Type      string      `json:"type"`
	AuctionID int64       `json:"auctionId"`
	LotID     int64       `json:"lotId,omitempty"`
	Token     string      `json:"token,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// ChatSendPayload is the body of a send-chat-message announcement.
type ChatSendPayload struct {
	Body     string `json:"body"`
	ParentID *int64 `json:"parentId,omitempty"`
}

// ManagerConfig holds configuration for the dual-channel manager.
type ManagerConfig struct {
	AuctionURL string
	ChatURL    string
	Auction    Config
	Chat       Config
}

// NewManagerConfig builds a manager config from the two endpoint URLs and
// the caller's token.
func NewManagerConfig(auctionURL, chatURL, token string) ManagerConfig {
	return ManagerConfig{
		AuctionURL: auctionURL,
		ChatURL:    chatURL,
		Auction:    DefaultConfig(auctionURL, token),
		Chat:       DefaultConfig(chatURL, token),
	}
}

// Manager owns the two event channels for one viewing session: the
// auction channel and the chat/presence channel. Each is scoped to an
// (auction, lot) identity pair; a scope change tears both down and
// reopens them, and session teardown closes both unconditionally.
type Manager struct {
	cfg ManagerConfig

	mu    sync.RWMutex
	scope Scope
	cred  Credential

	auction *Channel
	chat    *Channel
}

// NewManager creates a manager. Channels are not opened until Open.
func NewManager(cfg ManagerConfig) *Manager {
	return &Manager{cfg: cfg}
}

// Open binds both channels to the given scope and credential and starts
// their connect loops. The announce steps re-run on every reconnect.
func (m *Manager) Open(ctx context.Context, scope Scope, cred Credential) error {
	m.mu.Lock()
	m.scope = scope
	m.cred = cred
	m.auction = New("auction", m.cfg.Auction, m.announceAuction)
	m.chat = New("chat", m.cfg.Chat, m.announceChat)
	auction, chat := m.auction, m.chat
	m.mu.Unlock()

	auction.Open(ctx)
	chat.Open(ctx)

	log.Info().
		Int64("auction_id", scope.AuctionID).
		Int64("lot_id", scope.LotID).
		Msg("event channels opened")
	return nil
}

// Rescope rebinds both channels to a new identity pair. The current
// connections are torn down; the reconnect loops redial and re-announce
// with the new scope.
func (m *Manager) Rescope(ctx context.Context, scope Scope) error {
	m.mu.Lock()
	m.scope = scope
	auction, chat := m.auction, m.chat
	m.mu.Unlock()

	if auction == nil || chat == nil {
		return ErrNotConnected
	}

	auction.Reconnect()
	chat.Reconnect()

	log.Info().
		Int64("auction_id", scope.AuctionID).
		Int64("lot_id", scope.LotID).
		Msg("event channels rescoped")
	return nil
}

// Close announces unsubscribe on the auction channel and shuts both
// channels down. Safe to call on a manager that was never opened.
func (m *Manager) Close() error {
	m.mu.Lock()
	auction, chat := m.auction, m.chat
	m.auction, m.chat = nil, nil
	scope, cred := m.scope, m.cred
	m.mu.Unlock()

	if auction == nil {
		return nil
	}

	// Best effort: the channel may already be down.
	if err := auction.Send(Outgoing{
		Type:      MsgUnsubscribeAuction,
		AuctionID: scope.AuctionID,
		Token:     cred.Token,
	}); err != nil {
		log.Debug().Err(err).Msg("unsubscribe announce skipped")
	}

	auction.Close()
	if chat != nil {
		chat.Close()
	}
	log.Info().Msg("event channels closed")
	return nil
}

// AuctionEvents returns the auction channel's incoming frames.
func (m *Manager) AuctionEvents() <-chan []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.auction == nil {
		return nil
	}
	return m.auction.Events()
}

// ChatEvents returns the chat/presence channel's incoming frames.
func (m *Manager) ChatEvents() <-chan []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.chat == nil {
		return nil
	}
	return m.chat.Events()
}

// States returns the lifecycle state of both channels.
func (m *Manager) States() (auction, chat State) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	auction, chat = StateClosed, StateClosed
	if m.auction != nil {
		auction = m.auction.State()
	}
	if m.chat != nil {
		chat = m.chat.State()
	}
	return auction, chat
}

// SubscribeAuction re-announces interest in the auction. Also issued
// after a successful bid to force a fresh merge from the server.
func (m *Manager) SubscribeAuction() error {
	m.mu.RLock()
	auction, scope, cred := m.auction, m.scope, m.cred
	m.mu.RUnlock()

	if auction == nil {
		return ErrNotConnected
	}
	return auction.Send(Outgoing{
		Type:      MsgSubscribeAuction,
		AuctionID: scope.AuctionID,
		Token:     cred.Token,
	})
}

// AnnounceVisit re-announces this viewer's presence on the lot and
// requests the current visitor list. The heartbeat calls this on a fixed
// interval; it is what heals presence after transient disconnects.
func (m *Manager) AnnounceVisit() error {
	m.mu.RLock()
	chat, scope, cred := m.chat, m.scope, m.cred
	m.mu.RUnlock()

	if chat == nil {
		return ErrNotConnected
	}
	if err := chat.Send(Outgoing{
		Type:      MsgVisitLot,
		AuctionID: scope.AuctionID,
		LotID:     scope.LotID,
		Token:     cred.Token,
	}); err != nil {
		return err
	}
	return chat.Send(Outgoing{
		Type:      MsgRequestVisitorList,
		AuctionID: scope.AuctionID,
		LotID:     scope.LotID,
		Token:     cred.Token,
	})
}

// SendChatMessage submits a chat message over the chat channel. The
// message materializes locally via the server's echo.
func (m *Manager) SendChatMessage(body string, parentID *int64) error {
	m.mu.RLock()
	chat, scope, cred := m.chat, m.scope, m.cred
	m.mu.RUnlock()

	if chat == nil {
		return ErrNotConnected
	}
	return chat.Send(Outgoing{
		Type:      MsgSendChatMessage,
		AuctionID: scope.AuctionID,
		LotID:     scope.LotID,
		Token:     cred.Token,
		Data:      ChatSendPayload{Body: body, ParentID: parentID},
	})
}

// announceAuction runs on every successful (re)connect of the auction
// channel.
func (m *Manager) announceAuction() error {
	m.mu.RLock()
	auction, scope, cred := m.auction, m.scope, m.cred
	m.mu.RUnlock()

	if auction == nil {
		return ErrNotConnected
	}
	return auction.Send(Outgoing{
		Type:      MsgSubscribeAuction,
		AuctionID: scope.AuctionID,
		Token:     cred.Token,
	})
}

// announceChat runs on every successful (re)connect of the chat channel:
// join the auction's chat, announce the lot visit, request the visitor
// list.
func (m *Manager) announceChat() error {
	m.mu.RLock()
	chat, scope, cred := m.chat, m.scope, m.cred
	m.mu.RUnlock()

	if chat == nil {
		return ErrNotConnected
	}
	if err := chat.Send(Outgoing{
		Type:      MsgJoinAuctionChat,
		AuctionID: scope.AuctionID,
		Token:     cred.Token,
	}); err != nil {
		return err
	}
	return m.AnnounceVisit()
}
