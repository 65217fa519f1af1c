package mappers

import (
	bonusdto "github.com/LavaJover/shvark-sales-sync/internal/delivery/http/dto/bonus"
	"github.com/LavaJover/shvark-sales-sync/internal/domain"
)

func ToBonusSchemeResponse(s *domain.BonusScheme) bonusdto.BonusSchemeResponse {
	return bonusdto.BonusSchemeResponse{
		ID:           s.ID,
		Name:         s.Name,
		ProductID:    s.ProductID,
		BonusPercent: s.BonusPercent,
		MinQuantity:  s.MinQuantity,
		Active:       s.Active,
		StartDate:    s.StartDate,
		EndDate:      s.EndDate,
	}
}

func ToDomainBonusScheme(r bonusdto.BonusSchemeResponse) *domain.BonusScheme {
	return &domain.BonusScheme{
		ID:           r.ID,
		Name:         r.Name,
		ProductID:    r.ProductID,
		BonusPercent: r.BonusPercent,
		MinQuantity:  r.MinQuantity,
		Active:       r.Active,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
	}
}

func ToMotivationResponse(m *domain.Motivation) bonusdto.MotivationResponse {
	return bonusdto.MotivationResponse{
		ID:         m.ID,
		Title:      m.Title,
		BonusExtra: m.BonusExtra,
		Active:     m.Active,
		StartDate:  m.StartDate,
		EndDate:    m.EndDate,
	}
}

func ToDomainMotivation(r bonusdto.MotivationResponse) *domain.Motivation {
	return &domain.Motivation{
		ID:         r.ID,
		Title:      r.Title,
		BonusExtra: r.BonusExtra,
		Active:     r.Active,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
	}
}
