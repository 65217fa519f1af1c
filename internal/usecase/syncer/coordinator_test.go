package syncer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/connectivity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type memQueue struct {
	mu    sync.Mutex
	sales map[string]*domain.PendingSale
}

func newMemQueue(sales ...*domain.PendingSale) *memQueue {
	q := &memQueue{sales: make(map[string]*domain.PendingSale)}
	for _, s := range sales {
		q.sales[s.ID] = s
	}
	return q
}

func (q *memQueue) Save(_ context.Context, sale *domain.PendingSale) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, s := range q.sales {
		if s.ClientUUID == sale.ClientUUID {
			return nil
		}
	}
	cp := *sale
	cp.Synced = false
	q.sales[sale.ID] = &cp
	return nil
}

func (q *memQueue) ListPending(context.Context) ([]*domain.PendingSale, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []*domain.PendingSale
	for _, s := range q.sales {
		if !s.Synced {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (q *memQueue) MarkSynced(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if s, ok := q.sales[id]; ok && !s.Synced {
		now := time.Now()
		s.Synced = true
		s.SyncedAt = &now
	}
	return nil
}

func (q *memQueue) Delete(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	s, ok := q.sales[id]
	if !ok {
		return nil
	}
	if !s.Synced {
		return domain.ErrSaleNotSynced
	}
	delete(q.sales, id)
	return nil
}

func (q *memQueue) CountPending(ctx context.Context) (int64, error) {
	pending, _ := q.ListPending(ctx)
	return int64(len(pending)), nil
}

func (q *memQueue) PurgeSynced(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (q *memQueue) get(id string) *domain.PendingSale {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.sales[id]
}

// fakeService dedupes on ClientUUID like the sales service does. fail decides
// per call whether the caller sees an error; stored decides whether the sale
// reached the server before that error.
type fakeService struct {
	mu       sync.Mutex
	calls    int
	stored   map[string]int
	attempts map[string]int
	fail     func(call int, sale *domain.PendingSale) (stored bool, err error)
}

func newFakeService() *fakeService {
	return &fakeService{stored: make(map[string]int), attempts: make(map[string]int)}
}

func (f *fakeService) Insert(_ context.Context, sale *domain.PendingSale) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.attempts[sale.ClientUUID]++
	if f.fail != nil {
		if stored, err := f.fail(f.calls, sale); err != nil {
			if stored && f.stored[sale.ClientUUID] == 0 {
				f.stored[sale.ClientUUID] = 1
			}
			return err
		}
	}
	if f.stored[sale.ClientUUID] == 0 {
		f.stored[sale.ClientUUID] = 1
	}
	return nil
}

func (f *fakeService) storedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stored)
}

type remoteFunc func(ctx context.Context, sale *domain.PendingSale) error

func (f remoteFunc) Insert(ctx context.Context, sale *domain.PendingSale) error { return f(ctx, sale) }

func makeSales(n int) []*domain.PendingSale {
	sales := make([]*domain.PendingSale, 0, n)
	for i := 0; i < n; i++ {
		sales = append(sales, &domain.PendingSale{
			ID:          fmt.Sprintf("s%d", i),
			ClientUUID:  fmt.Sprintf("uuid-%d", i),
			PromoterID:  "promoter-1",
			ProductID:   "product-1",
			Quantity:    1,
			TotalAmount: decimal.NewFromInt(1000),
			CreatedAt:   time.Date(2024, 5, 1, 10, i, 0, 0, time.UTC),
		})
	}
	return sales
}

func TestDrain_PartialFailureIsolated(t *testing.T) {
	queue := newMemQueue(makeSales(5)...)
	svc := newFakeService()
	svc.fail = func(_ int, sale *domain.PendingSale) (bool, error) {
		if sale.ID == "s2" {
			return false, errors.New("rejected")
		}
		return false, nil
	}
	c := NewCoordinator(queue, svc, zaptest.NewLogger(t), nil, Options{})

	summary, err := c.Drain(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Attempted)
	assert.Equal(t, 4, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed())
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "Sale s2: rejected", summary.Errors[0])
	require.Len(t, summary.Results, 5)

	pending, err := queue.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "s2", pending[0].ID)
}

func TestDrain_SyncedSalesAreNotResubmitted(t *testing.T) {
	queue := newMemQueue(makeSales(3)...)
	svc := newFakeService()
	c := NewCoordinator(queue, svc, zaptest.NewLogger(t), nil, Options{})

	first, err := c.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, first.Succeeded)

	second, err := c.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Attempted)

	for uuid, n := range svc.attempts {
		assert.Equal(t, 1, n, "sale %s submitted more than once", uuid)
	}
}

func TestDrain_SingleFlight(t *testing.T) {
	queue := newMemQueue(makeSales(1)...)
	entered := make(chan struct{})
	release := make(chan struct{})
	remote := remoteFunc(func(context.Context, *domain.PendingSale) error {
		close(entered)
		<-release
		return nil
	})
	c := NewCoordinator(queue, remote, zaptest.NewLogger(t), nil, Options{})

	done := make(chan *DrainSummary)
	go func() {
		summary, _ := c.Drain(context.Background())
		done <- summary
	}()
	<-entered

	summary, err := c.Drain(context.Background())
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, ErrDrainInProgress)

	close(release)
	first := <-done
	require.NotNil(t, first)
	assert.Equal(t, 1, first.Succeeded)

	// the guard is released once the first drain returns
	again, err := c.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, again.Attempted)
}

func TestDrain_NoLossUnderFlappingConnectivity(t *testing.T) {
	const n = 20
	queue := newMemQueue(makeSales(n)...)
	svc := newFakeService()
	// Every other call fails; every third failure happens after the server
	// stored the sale, as when the response is lost on the way back.
	svc.fail = func(call int, _ *domain.PendingSale) (bool, error) {
		if call%2 == 0 {
			return call%3 == 0, errors.New("connection reset")
		}
		return false, nil
	}
	c := NewCoordinator(queue, svc, zaptest.NewLogger(t), nil, Options{})

	for i := 0; i < 50; i++ {
		_, err := c.Drain(context.Background())
		require.NoError(t, err)
		count, _ := queue.CountPending(context.Background())
		if count == 0 {
			break
		}
	}

	count, err := queue.CountPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, n, svc.storedCount())
	for _, s := range makeSales(n) {
		assert.Equal(t, 1, svc.stored[s.ClientUUID])
	}
}

func TestDrain_RecoversPanicPerRecord(t *testing.T) {
	queue := newMemQueue(makeSales(3)...)
	remote := remoteFunc(func(_ context.Context, sale *domain.PendingSale) error {
		if sale.ID == "s1" {
			panic("boom")
		}
		return nil
	})
	c := NewCoordinator(queue, remote, zaptest.NewLogger(t), nil, Options{})

	summary, err := c.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Succeeded)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "Sale s1: panic while syncing: boom")
	assert.False(t, queue.get("s1").Synced)
}

func TestDrain_OfflineSaleSyncedExactlyOnce(t *testing.T) {
	queue := newMemQueue()
	svc := newFakeService()
	var online bool
	svc.fail = func(int, *domain.PendingSale) (bool, error) {
		if !online {
			return false, errors.New("network unreachable")
		}
		return false, nil
	}
	c := NewCoordinator(queue, svc, zaptest.NewLogger(t), nil, Options{})

	sale := makeSales(1)[0]
	require.NoError(t, queue.Save(context.Background(), sale))

	offline, err := c.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, offline.Succeeded)
	assert.False(t, queue.get(sale.ID).Synced)

	online = true
	summary, err := c.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)
	assert.True(t, queue.get(sale.ID).Synced)
	assert.Equal(t, 1, svc.stored[sale.ClientUUID])
	assert.Equal(t, 1, svc.storedCount())
}

func TestDrain_DeleteOnSync(t *testing.T) {
	queue := newMemQueue(makeSales(2)...)
	c := NewCoordinator(queue, newFakeService(), zaptest.NewLogger(t), nil, Options{DeleteOnSync: true})

	_, err := c.Drain(context.Background())
	require.NoError(t, err)
	assert.Nil(t, queue.get("s0"))
	assert.Nil(t, queue.get("s1"))
}

type recorder struct {
	mu       sync.Mutex
	outcomes []string
	pending  int64
}

func (r *recorder) RecordDrain(outcome string, _ float64, _, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recorder) SetPending(count int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = count
}

func (r *recorder) snapshot() ([]string, int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.outcomes...), r.pending
}

func TestRun_DrainsOnOnlineAndTrigger(t *testing.T) {
	queue := newMemQueue()
	svc := newFakeService()
	rec := &recorder{}
	c := NewCoordinator(queue, svc, zaptest.NewLogger(t), rec, Options{})

	events := make(chan connectivity.Event)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx, events)

	sales := makeSales(2)
	require.NoError(t, queue.Save(ctx, sales[0]))
	events <- connectivity.Event{Kind: connectivity.EventOnline, At: time.Now()}
	require.Eventually(t, func() bool { return svc.storedCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, queue.Save(ctx, sales[1]))
	c.Trigger()
	c.Trigger()
	require.Eventually(t, func() bool { return svc.storedCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		outcomes, pending := rec.snapshot()
		return len(outcomes) >= 2 && pending == 0
	}, 2*time.Second, 10*time.Millisecond)
}

type sessionRenewer struct {
	calls int
	err   error
	onOK  func()
}

func (r *sessionRenewer) Refresh(context.Context) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	r.onOK()
	return nil
}

func TestDrain_RenewsSessionOnceWhenRejected(t *testing.T) {
	queue := newMemQueue(makeSales(3)...)
	svc := newFakeService()
	var mu sync.Mutex
	authorized := false
	svc.fail = func(int, *domain.PendingSale) (bool, error) {
		mu.Lock()
		defer mu.Unlock()
		if !authorized {
			return false, fmt.Errorf("%w: status 401", domain.ErrUnauthorized)
		}
		return false, nil
	}
	renewer := &sessionRenewer{err: errors.New("offline")}
	renewer.onOK = func() {
		mu.Lock()
		authorized = true
		mu.Unlock()
	}
	c := NewCoordinator(queue, svc, zaptest.NewLogger(t), nil, Options{Sessions: renewer})

	summary, err := c.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, 1, renewer.calls, "one login attempt per drain")

	renewer.err = nil
	summary, err = c.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, renewer.calls)
	assert.Equal(t, 2, summary.Succeeded, "records after the renewal use the new session")
	assert.Len(t, summary.Errors, 1)

	summary, err = c.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 3, svc.storedCount())
	assert.Equal(t, 2, renewer.calls)
}
