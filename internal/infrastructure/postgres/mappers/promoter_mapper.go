package mappers

import (
	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/postgres/models"
)

func ToGORMPromoter(p *domain.Promoter) *models.PromoterModel {
	return &models.PromoterModel{
		ID:         p.ID,
		TelegramID: p.TelegramID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Username:   p.Username,
		Role:       p.Role,
	}
}

func ToDomainPromoter(model *models.PromoterModel) *domain.Promoter {
	return &domain.Promoter{
		ID:         model.ID,
		TelegramID: model.TelegramID,
		FirstName:  model.FirstName,
		LastName:   model.LastName,
		Username:   model.Username,
		Role:       model.Role,
	}
}

func ToGORMSession(s *domain.Session) *models.SessionModel {
	return &models.SessionModel{
		PromoterID: s.PromoterID,
		Token:      s.Token,
		CreatedAt:  s.CreatedAt,
	}
}

func ToDomainSession(model *models.SessionModel) *domain.Session {
	return &domain.Session{
		Token:      model.Token,
		PromoterID: model.PromoterID,
		CreatedAt:  model.CreatedAt,
	}
}
