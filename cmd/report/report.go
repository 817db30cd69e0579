package main

import (
	"errors"
	"sort"
	"time"

	"donorcrm/internal/domain"
	"donorcrm/internal/scoring"
)

type atRiskDonor struct {
	DonorID           string            `json:"donor_id"`
	RiskLevel         scoring.RiskLevel `json:"risk_level"`
	Probability       int               `json:"probability"`
	DaysSinceLastGift int               `json:"days_since_last_gift"`
	RetentionActions  []string          `json:"retention_actions"`
}

type report struct {
	AsOf      time.Time                `json:"as_of"`
	Threshold float64                  `json:"threshold"`
	Evaluated int                      `json:"evaluated"`
	Skipped   int                      `json:"skipped"`
	Prospects []scoring.ProspectResult `json:"prospects"`
	AtRisk    []atRiskDonor            `json:"at_risk"`
}

// buildReport scores every donor in pool as of asOf. Donors without usable
// history are counted as skipped. at_risk lists High and Medium lapse risk
// donors, most likely to lapse first.
func buildReport(engine *scoring.Engine, pool []domain.DonorHistory, asOf time.Time, threshold float64) (report, []error) {
	var errs []error
	candidates := make([]scoring.Candidate, 0, len(pool))
	atRisk := []atRiskDonor{}
	skipped := 0

	for _, d := range pool {
		agg, err := engine.BuildAggregate(d.Donations, asOf, d.Signals)
		if err != nil {
			skipped++
			if !errors.Is(err, scoring.ErrNoHistory) {
				errs = append(errs, err)
			}
			continue
		}
		candidates = append(candidates, scoring.Candidate{Ref: d.DonorID, Aggregate: agg})

		risk := engine.PredictLapseRisk(scoring.LapseInputFrom(agg))
		if risk.RiskLevel == scoring.RiskLow {
			continue
		}
		atRisk = append(atRisk, atRiskDonor{
			DonorID:           d.DonorID,
			RiskLevel:         risk.RiskLevel,
			Probability:       risk.Probability,
			DaysSinceLastGift: agg.DaysSinceLastGift,
			RetentionActions:  risk.RetentionActions,
		})
	}

	sort.SliceStable(atRisk, func(i, j int) bool {
		return atRisk[i].Probability > atRisk[j].Probability
	})

	if threshold <= 0 {
		threshold = engine.Thresholds().Prospect.MajorGiftThreshold
	}
	return report{
		AsOf:      asOf,
		Threshold: threshold,
		Evaluated: len(candidates),
		Skipped:   skipped,
		Prospects: engine.RankProspects(candidates, threshold),
		AtRisk:    atRisk,
	}, errs
}
