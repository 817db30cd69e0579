package repo

import (
	"context"
	"fmt"

	"donorcrm/internal/domain"
	"donorcrm/internal/infra"
	"donorcrm/internal/scoring"
	"donorcrm/internal/sqlinline"
)

// ContactRepositoryPG reads donor contact records.
type ContactRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewContactRepository(sql infra.SQLExecutor) *ContactRepositoryPG {
	return &ContactRepositoryPG{sql: sql}
}

// Signals returns the recorded email opens and event attendance. NULL columns
// stay nil so the scorers skip them. A missing donor yields domain.ErrNotFound.
func (r *ContactRepositoryPG) Signals(ctx context.Context, donorID string) (scoring.ChannelSignals, error) {
	var signals scoring.ChannelSignals
	err := r.sql.QueryRow(ctx, sqlinline.QDonorSignals, donorID).Scan(&signals.EmailOpens, &signals.EventAttendance)
	if err != nil {
		if infra.IsNoRows(err) {
			return scoring.ChannelSignals{}, domain.ErrNotFound
		}
		return scoring.ChannelSignals{}, fmt.Errorf("load donor signals: %w", err)
	}
	return signals, nil
}

var _ domain.ContactRepository = (*ContactRepositoryPG)(nil)
