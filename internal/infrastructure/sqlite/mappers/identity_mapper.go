package mappers

import (
	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/sqlite/models"
)

func ToGORMAgentIdentity(identity *domain.AgentIdentity) *models.AgentIdentityModel {
	return models.NewAgentIdentityModel(identity.PromoterID, identity.SessionToken, identity.LoggedInAt.UTC())
}

func ToDomainAgentIdentity(model *models.AgentIdentityModel) *domain.AgentIdentity {
	return &domain.AgentIdentity{
		PromoterID:   model.PromoterID,
		SessionToken: model.SessionToken,
		LoggedInAt:   model.LoggedInAt,
	}
}
