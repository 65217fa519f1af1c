package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func testSale() *domain.Sale {
	return &domain.Sale{
		ID:          "0b6c3a55-9d43-4a4f-9f0e-7a1d7c9a6f10",
		ClientUUID:  "2c1f4e1a-0b7b-4c55-8f3e-9b8f6c1d2e3f",
		PromoterID:  "promoter-1",
		ProductID:   "product-1",
		Quantity:    2,
		TotalAmount: decimal.NewFromInt(40000),
		BonusAmount: decimal.NewFromInt(4000),
		BonusExtra:  decimal.NewFromInt(2000),
		CreatedAt:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		ReceivedAt:  time.Date(2024, 6, 1, 12, 5, 0, 0, time.UTC),
	}
}

var insertSale = `INSERT INTO "sales" .* ON CONFLICT \("client_uuid"\) DO NOTHING`

func TestInsertIdempotent_Created(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDefaultSaleRepository(db)

	mock.ExpectExec(insertSale).WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.InsertIdempotent(context.Background(), testSale())
	require.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertIdempotent_DuplicateIsNotAnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDefaultSaleRepository(db)

	mock.ExpectExec(insertSale).WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := repo.InsertIdempotent(context.Background(), testSale())
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertIdempotent_DatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDefaultSaleRepository(db)

	mock.ExpectExec(insertSale).WillReturnError(sqlmock.ErrCancelled)

	_, err := repo.InsertIdempotent(context.Background(), testSale())
	assert.Error(t, err)
}

func TestGetByClientUUID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDefaultSaleRepository(db)
	s := testSale()

	rows := sqlmock.NewRows([]string{"id", "client_uuid", "promoter_id", "product_id", "product_variant_id", "quantity", "total_amount", "bonus_amount", "bonus_extra", "created_at", "received_at"}).
		AddRow(s.ID, s.ClientUUID, s.PromoterID, s.ProductID, nil, s.Quantity, "40000.00", "4000.00", "2000.00", s.CreatedAt, s.ReceivedAt)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "sales" WHERE client_uuid = $1`)).WillReturnRows(rows)

	got, err := repo.GetByClientUUID(context.Background(), s.ClientUUID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Nil(t, got.ProductVariantID)
	assert.True(t, got.TotalAmount.Equal(s.TotalAmount))
	assert.True(t, got.BonusExtra.Equal(s.BonusExtra))
}

func TestGetByClientUUID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDefaultSaleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "sales" WHERE client_uuid = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByClientUUID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpsertByTelegramID_CreatesOnFirstLogin(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDefaultPromoterRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "promoters" WHERE telegram_id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "promoters"`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	first := "Ana"
	got, err := repo.UpsertByTelegramID(context.Background(), &domain.Promoter{
		ID:         "p-new",
		TelegramID: "777",
		FirstName:  &first,
		Role:       domain.RolePromoter,
	})
	require.NoError(t, err)
	assert.Equal(t, "p-new", got.ID)
	assert.Equal(t, "777", got.TelegramID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertByTelegramID_KeepsExistingID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDefaultPromoterRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "promoters" WHERE telegram_id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "telegram_id", "role"}).AddRow("p-old", "777", domain.RolePromoter))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "promoters" SET`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	renamed := "Anna"
	got, err := repo.UpsertByTelegramID(context.Background(), &domain.Promoter{
		ID:         "p-new",
		TelegramID: "777",
		FirstName:  &renamed,
		Role:       domain.RolePromoter,
	})
	require.NoError(t, err)
	assert.Equal(t, "p-old", got.ID)
	require.NotNil(t, got.FirstName)
	assert.Equal(t, "Anna", *got.FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
