package marketapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/saleroom/saleroom/go/internal/room"
)

// FetchAuction issues the one-shot authoritative read for an auction
// room, including all lots and their bid ledgers.
func (c *Client) FetchAuction(ctx context.Context, auctionID int64) (*room.AuctionRoom, error) {
	var snapshot room.AuctionRoom
	endpoint := fmt.Sprintf("/auctions/%d", auctionID)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// FetchChatTranscript issues the one-shot read for an auction's chat
// transcript.
func (c *Client) FetchChatTranscript(ctx context.Context, auctionID int64) ([]room.ChatMessage, error) {
	var messages []room.ChatMessage
	endpoint := fmt.Sprintf("/auctions/%d/chat", auctionID)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

type bidRequest struct {
	Amount   float64 `json:"amount"`
	IsBuyNow bool    `json:"isBuyNow"`
}

// PlaceBid submits a bid for a lot. The authoritative ledger entry
// arrives back over the auction event channel, not in this response.
func (c *Client) PlaceBid(ctx context.Context, auctionID, lotID int64, amount float64, isBuyNow bool) error {
	endpoint := fmt.Sprintf("/auctions/%d/lots/%d/bids", auctionID, lotID)
	return c.do(ctx, http.MethodPost, endpoint, bidRequest{Amount: amount, IsBuyNow: isBuyNow}, nil)
}

// DeleteChatMessage removes a chat message. Peers learn of the removal
// via the chat-message-deleted event.
func (c *Client) DeleteChatMessage(ctx context.Context, messageID int64) error {
	endpoint := fmt.Sprintf("/chat/messages/%d", messageID)
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil)
}
