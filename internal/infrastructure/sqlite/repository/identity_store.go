package repository

import (
	"context"
	"errors"

	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/sqlite/mappers"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/sqlite/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IdentityStore holds a single row: the identity from the last successful
// login on this device.
type IdentityStore struct {
	DB *gorm.DB
}

func NewIdentityStore(db *gorm.DB) *IdentityStore {
	return &IdentityStore{DB: db}
}

func (s *IdentityStore) Load(ctx context.Context) (*domain.AgentIdentity, error) {
	var model models.AgentIdentityModel
	if err := s.DB.WithContext(ctx).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mappers.ToDomainAgentIdentity(&model), nil
}

func (s *IdentityStore) Save(ctx context.Context, identity *domain.AgentIdentity) error {
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"promoter_id", "session_token", "logged_in_at"}),
		}).
		Create(mappers.ToGORMAgentIdentity(identity)).Error
}
