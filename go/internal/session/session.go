package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/saleroom/saleroom/go/internal/channel"
	"github.com/saleroom/saleroom/go/internal/room"
)

// MarketAPI is the request/response surface of the marketplace backend.
type MarketAPI interface {
	FetchAuction(ctx context.Context, auctionID int64) (*room.AuctionRoom, error)
	FetchChatTranscript(ctx context.Context, auctionID int64) ([]room.ChatMessage, error)
	PlaceBid(ctx context.Context, auctionID, lotID int64, amount float64, isBuyNow bool) error
	DeleteChatMessage(ctx context.Context, messageID int64) error
}

// EventChannels is the dual-channel surface owned by the session.
type EventChannels interface {
	Open(ctx context.Context, scope channel.Scope, cred channel.Credential) error
	Rescope(ctx context.Context, scope channel.Scope) error
	Close() error
	AuctionEvents() <-chan []byte
	ChatEvents() <-chan []byte
	SubscribeAuction() error
	AnnounceVisit() error
	SendChatMessage(body string, parentID *int64) error
}

// Config holds configuration for a viewing session.
type Config struct {
	HeartbeatInterval time.Duration
	TickInterval      time.Duration
	Clock             clockwork.Clock
}

// DefaultConfig returns default session configuration.
func DefaultConfig() Config {
	return Config{
		HeartbeatInterval: 30 * time.Second,
		TickInterval:      1 * time.Second,
		Clock:             clockwork.NewRealClock(),
	}
}

// Session is one viewer's live view of a single lot. It owns the room
// state exclusively: the snapshot load populates it, the two event
// channels mutate it through the reconcilers, and locally-initiated
// actions go through the submitter methods. All reconciliation for one
// event runs to completion under the session lock before the next event
// is processed.
type Session struct {
	cfg      Config
	api      MarketAPI
	channels EventChannels
	clock    clockwork.Clock
	cred     channel.Credential

	mu          sync.RWMutex
	scope       channel.Scope
	epoch       int
	loadCancel  context.CancelFunc
	auction     *room.AuctionRoom
	transcript  *room.ChatTranscript
	presence    *room.PresenceTracker
	countdown   room.Countdown
	settlements *room.SettlementStore
	challenge   Challenge
	loadErr     string

	done      chan struct{}
	closeOnce sync.Once
}

// New creates a session for the given viewer credential.
func New(cfg Config, api MarketAPI, channels EventChannels, cred channel.Credential) *Session {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	s := &Session{
		cfg:         cfg,
		api:         api,
		channels:    channels,
		clock:       cfg.Clock,
		cred:        cred,
		transcript:  room.NewChatTranscript(),
		presence:    room.NewPresenceTracker(),
		settlements: room.NewSettlementStore(),
		done:        make(chan struct{}),
	}
	s.challenge = newChallenge(s.clock)
	return s
}

// Open binds the session to an (auction, lot) scope: loads the snapshot,
// opens both event channels, and starts the event loop, presence
// heartbeat, and countdown tick.
func (s *Session) Open(ctx context.Context, scope channel.Scope) error {
	if !scope.Valid() {
		return ErrInvalidScope
	}

	s.mu.Lock()
	s.scope = scope
	s.epoch++
	// Self shows up immediately so the viewer never sees zero visitors.
	if self, ok := s.selfVisitor(); ok {
		s.presence.Upsert(self)
	}
	epoch := s.epoch
	s.mu.Unlock()

	if err := s.channels.Open(ctx, scope, s.cred); err != nil {
		return err
	}
	s.beginLoad(ctx, scope.AuctionID, epoch)

	go s.run(ctx)

	log.Info().
		Int64("auction_id", scope.AuctionID).
		Int64("lot_id", scope.LotID).
		Msg("viewing session opened")
	return nil
}

// SetScope moves the session to a different auction/lot. In-flight
// snapshot reads for the previous scope are cancelled and their results
// discarded; both channels are torn down and reopened against the new
// identity.
func (s *Session) SetScope(ctx context.Context, scope channel.Scope) error {
	if !scope.Valid() {
		return ErrInvalidScope
	}

	s.mu.Lock()
	if scope == s.scope {
		s.mu.Unlock()
		return nil
	}
	s.scope = scope
	s.epoch++
	epoch := s.epoch
	if s.loadCancel != nil {
		s.loadCancel()
	}
	s.auction = nil
	s.loadErr = ""
	s.countdown = room.Countdown{}
	s.transcript.Reset(nil)
	self, hasSelf := s.selfVisitor()
	s.presence.ReplaceAll(nil)
	if hasSelf {
		s.presence.Upsert(self)
	}
	s.mu.Unlock()

	if err := s.channels.Rescope(ctx, scope); err != nil {
		log.Warn().Err(err).Msg("channel rescope failed")
	}
	s.beginLoad(ctx, scope.AuctionID, epoch)
	return nil
}

// Close tears the session down: unsubscribe announce, both channels
// closed, heartbeat and tick stopped, in-flight loads cancelled.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		if s.loadCancel != nil {
			s.loadCancel()
		}
		s.mu.Unlock()

		close(s.done)
		if err := s.channels.Close(); err != nil {
			log.Warn().Err(err).Msg("channel close failed")
		}
		log.Info().Msg("viewing session closed")
	})
	return nil
}

// run is the session event loop. Events from the two channels carry no
// relative ordering guarantee; each is reconciled independently.
func (s *Session) run(ctx context.Context) {
	heartbeat := s.clock.NewTicker(s.cfg.HeartbeatInterval)
	tick := s.clock.NewTicker(s.cfg.TickInterval)
	defer heartbeat.Stop()
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Close()
			return
		case <-s.done:
			return
		case data := <-s.channels.AuctionEvents():
			s.handleAuctionFrame(data)
		case data := <-s.channels.ChatEvents():
			s.handleChatFrame(data)
		case <-heartbeat.Chan():
			if err := s.channels.AnnounceVisit(); err != nil {
				log.Debug().Err(err).Msg("presence heartbeat skipped")
			}
		case <-tick.Chan():
			s.recomputeCountdown()
		}
	}
}

// beginLoad starts the two independent snapshot reads for the given
// epoch. Results that resolve after the epoch has moved on are dropped.
func (s *Session) beginLoad(ctx context.Context, auctionID int64, epoch int) {
	loadCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.loadCancel = cancel
	s.mu.Unlock()

	go s.loadAuction(loadCtx, auctionID, epoch)
	go s.loadTranscript(loadCtx, auctionID, epoch)
}

func (s *Session) loadAuction(ctx context.Context, auctionID int64, epoch int) {
	snapshot, err := s.api.FetchAuction(ctx, auctionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		log.Debug().Int64("auction_id", auctionID).Msg("stale auction snapshot discarded")
		return
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.loadErr = loadFailureMessage(err)
		log.Error().Err(err).Int64("auction_id", auctionID).Msg("auction snapshot load failed")
		return
	}

	s.auction = snapshot
	s.loadErr = ""
	s.countdown = room.RemainingUntil(snapshot.EndTime, s.clock.Now())
	log.Info().
		Int64("auction_id", auctionID).
		Int("lots", len(snapshot.Lots)).
		Msg("auction snapshot loaded")
}

func (s *Session) loadTranscript(ctx context.Context, auctionID int64, epoch int) {
	messages, err := s.api.FetchChatTranscript(ctx, auctionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		log.Debug().Int64("auction_id", auctionID).Msg("stale chat transcript discarded")
		return
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		// Chat is non-blocking: the room renders without a transcript.
		log.Error().Err(err).Int64("auction_id", auctionID).Msg("chat transcript load failed")
		return
	}

	s.transcript.Reset(messages)
	log.Info().
		Int64("auction_id", auctionID).
		Int("messages", len(messages)).
		Msg("chat transcript loaded")
}

func (s *Session) recomputeCountdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.auction == nil {
		return
	}
	s.countdown = room.RemainingUntil(s.auction.EndTime, s.clock.Now())
}

func (s *Session) selfVisitor() (room.Visitor, bool) {
	if s.cred.UserID == 0 && s.cred.DisplayName == "" {
		return room.Visitor{}, false
	}
	return room.Visitor{ID: s.cred.UserID, Name: s.cred.DisplayName}, true
}
