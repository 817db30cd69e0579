package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"donorcrm/internal/scoring"
)

// DonorHistory is a donor's stored gifts plus the contact signals recorded for them.
type DonorHistory struct {
	DonorID   string
	Donations []scoring.DonationFact
	Signals   scoring.ChannelSignals
}

// ParseDonorID normalises a donor id path parameter to its canonical uuid form.
func ParseDonorID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDonorID, raw)
	}
	return id.String(), nil
}
