package session

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Challenge is the human-verification code a bid must echo back. A fresh
// challenge is issued whenever validation fails or a bid succeeds, so a
// stale or known-bad code can never be replayed.
type Challenge struct {
	Code     string
	IssuedAt time.Time
}

func newChallenge(clock clockwork.Clock) Challenge {
	return Challenge{
		Code:     strings.ToUpper(uuid.NewString()[:6]),
		IssuedAt: clock.Now(),
	}
}

// Matches reports whether the given code satisfies the challenge,
// ignoring case.
func (c Challenge) Matches(code string) bool {
	return c.Code != "" && strings.EqualFold(c.Code, code)
}
