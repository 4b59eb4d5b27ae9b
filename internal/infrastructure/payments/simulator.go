package payments

import (
	"context"

	"github.com/rs/zerolog"
)

// Simulator is a payment authorizer that approves every charge. It stands in
// for a real gateway integration and logs what would have been charged.
type Simulator struct {
	log zerolog.Logger
}

// NewSimulator creates a Simulator logging to log.
func NewSimulator(log zerolog.Logger) *Simulator {
	return &Simulator{log: log}
}

// Authorize approves the charge unconditionally.
func (s *Simulator) Authorize(_ context.Context, userID, method string, amount float64) error {
	s.log.Info().
		Str("user_id", userID).
		Str("method", method).
		Float64("amount", amount).
		Msg("payment authorized (simulated)")
	return nil
}
