package repo

import (
	"context"
	"fmt"
	"time"

	"donorcrm/internal/domain"
	"donorcrm/internal/infra"
	"donorcrm/internal/scoring"
	"donorcrm/internal/sqlinline"
)

// DonationRepositoryPG implements DonationRepository using PostgreSQL.
type DonationRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(sql infra.SQLExecutor) *DonationRepositoryPG {
	return &DonationRepositoryPG{sql: sql}
}

// History returns every gift recorded for donorID, oldest first.
func (r *DonationRepositoryPG) History(ctx context.Context, donorID string) ([]scoring.DonationFact, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QDonationHistory, donorID)
	if err != nil {
		return nil, fmt.Errorf("query donation history: %w", err)
	}
	defer rows.Close()

	items := []scoring.DonationFact{}
	for rows.Next() {
		var fact scoring.DonationFact
		if err := rows.Scan(&fact.Date, &fact.Amount, &fact.Fund); err != nil {
			return nil, fmt.Errorf("scan donation: %w", err)
		}
		fact.Date = fact.Date.UTC()
		items = append(items, fact)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Pool returns up to limit donors that have at least one gift, each with its
// full history. Donors are ordered by id so repeated calls page consistently.
func (r *DonationRepositoryPG) Pool(ctx context.Context, limit int) ([]domain.DonorHistory, error) {
	if limit <= 0 {
		return []domain.DonorHistory{}, nil
	}
	rows, err := r.sql.Query(ctx, sqlinline.QDonorPoolHistory, limit)
	if err != nil {
		return nil, fmt.Errorf("query donor pool: %w", err)
	}
	defer rows.Close()

	pool := []domain.DonorHistory{}
	for rows.Next() {
		var (
			donorID string
			opens   *int
			events  *int
			givenAt time.Time
			amount  float64
			fund    string
		)
		if err := rows.Scan(&donorID, &opens, &events, &givenAt, &amount, &fund); err != nil {
			return nil, fmt.Errorf("scan donor pool: %w", err)
		}
		if n := len(pool); n == 0 || pool[n-1].DonorID != donorID {
			pool = append(pool, domain.DonorHistory{
				DonorID: donorID,
				Signals: scoring.ChannelSignals{EmailOpens: opens, EventAttendance: events},
			})
		}
		last := &pool[len(pool)-1]
		last.Donations = append(last.Donations, scoring.DonationFact{Date: givenAt.UTC(), Amount: amount, Fund: fund})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pool, nil
}

var _ domain.DonationRepository = (*DonationRepositoryPG)(nil)
