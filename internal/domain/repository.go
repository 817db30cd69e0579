package domain

import (
	"context"

	"donorcrm/internal/scoring"
)

// DonationRepository reads donation history.
type DonationRepository interface {
	History(ctx context.Context, donorID string) ([]scoring.DonationFact, error)
	Pool(ctx context.Context, limit int) ([]DonorHistory, error)
}

// ContactRepository reads donor records and their non-giving engagement signals.
// Signals returns ErrNotFound for an unknown donor.
type ContactRepository interface {
	Signals(ctx context.Context, donorID string) (scoring.ChannelSignals, error)
}
