package models

import "time"

// singleIdentityRow is the only primary key the identity table ever holds.
const singleIdentityRow = 1

type AgentIdentityModel struct {
	ID           int `gorm:"primaryKey;autoIncrement:false"`
	PromoterID   string
	SessionToken string
	LoggedInAt   time.Time
}

func (AgentIdentityModel) TableName() string {
	return "agent_identity"
}

func NewAgentIdentityModel(promoterID, token string, loggedInAt time.Time) *AgentIdentityModel {
	return &AgentIdentityModel{
		ID:           singleIdentityRow,
		PromoterID:   promoterID,
		SessionToken: token,
		LoggedInAt:   loggedInAt,
	}
}
