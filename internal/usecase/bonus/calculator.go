// Package bonus computes the bonus attached to a sale at the moment it is
// captured. Results are stored with the sale and never recomputed.
package bonus

import (
	"sort"
	"time"

	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Input struct {
	ProductID   string
	Quantity    int
	TotalAmount decimal.Decimal
	Schemes     []*domain.BonusScheme
	Motivations []*domain.Motivation
	Now         time.Time
}

type Result struct {
	BonusAmount decimal.Decimal
	BonusExtra  decimal.Decimal

	SchemeID     string
	MotivationID string
}

// Compute picks the best matching scheme and the most recently started
// motivation. It has no side effects and depends only on its input.
func Compute(in Input) Result {
	res := Result{
		BonusAmount: decimal.Zero,
		BonusExtra:  decimal.Zero,
	}

	if scheme := selectScheme(in); scheme != nil {
		res.SchemeID = scheme.ID
		res.BonusAmount = in.TotalAmount.Mul(scheme.BonusPercent).Div(hundred).Round(2)
	}
	if motivation := selectMotivation(in.Motivations, in.Now); motivation != nil {
		res.MotivationID = motivation.ID
		res.BonusExtra = motivation.BonusExtra
	}

	return res
}

func selectScheme(in Input) *domain.BonusScheme {
	matches := make([]*domain.BonusScheme, 0, len(in.Schemes))
	for _, s := range in.Schemes {
		if s == nil || !s.Active || s.ProductID != in.ProductID {
			continue
		}
		if s.MinQuantity > in.Quantity {
			continue
		}
		if s.StartDate != nil && s.StartDate.After(in.Now) {
			continue
		}
		if s.EndDate != nil && s.EndDate.Before(in.Now) {
			continue
		}
		matches = append(matches, s)
	}
	if len(matches) == 0 {
		return nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if c := a.BonusPercent.Cmp(b.BonusPercent); c != 0 {
			return c > 0
		}
		if a.MinQuantity != b.MinQuantity {
			return a.MinQuantity > b.MinQuantity
		}
		return a.ID < b.ID
	})
	return matches[0]
}

func selectMotivation(motivations []*domain.Motivation, now time.Time) *domain.Motivation {
	var best *domain.Motivation
	for _, m := range motivations {
		if m == nil || !m.Active {
			continue
		}
		if m.StartDate.After(now) {
			continue
		}
		if m.EndDate != nil && m.EndDate.Before(now) {
			continue
		}
		if best == nil ||
			m.StartDate.After(best.StartDate) ||
			(m.StartDate.Equal(best.StartDate) && m.ID < best.ID) {
			best = m
		}
	}
	return best
}
