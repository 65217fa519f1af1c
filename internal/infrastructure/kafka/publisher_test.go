package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	msgs []kafka.Message
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error { return nil }

func TestPublishSaleRecorded(t *testing.T) {
	w := &captureWriter{}
	p := &KafkaPublisher{writer: w}

	event := domain.SaleRecordedEvent{
		SaleID:      "srv-1",
		ClientUUID:  "2c1f4e1a-0b7b-4c55-8f3e-9b8f6c1d2e3f",
		PromoterID:  "promoter-1",
		ProductID:   "product-1",
		Quantity:    2,
		TotalAmount: "40000.00",
		BonusAmount: "4000.00",
		BonusExtra:  "2000.00",
		CreatedAt:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.PublishSaleRecorded(context.Background(), event))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "promoter-1", string(w.msgs[0].Key))

	var decoded domain.SaleRecordedEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, event, decoded)
}

func TestKafkaConfig_Mechanism(t *testing.T) {
	mech, err := KafkaConfig{}.mechanism()
	require.NoError(t, err)
	assert.Nil(t, mech)

	mech, err = KafkaConfig{Username: "u", Password: "p"}.mechanism()
	require.NoError(t, err)
	assert.Equal(t, plain.Mechanism{Username: "u", Password: "p"}, mech)

	mech, err = KafkaConfig{Username: "u", Password: "p", Mechanism: "scram-sha-512"}.mechanism()
	require.NoError(t, err)
	assert.Equal(t, "SCRAM-SHA-512", mech.Name())

	_, err = KafkaConfig{Username: "u", Mechanism: "GSSAPI"}.mechanism()
	assert.Error(t, err)
}

func TestNewKafkaPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(KafkaConfig{Topic: "sale-events"})
	assert.Error(t, err)
}
