package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/exchangeledger/internal/domain"
	"github.com/iho/exchangeledger/internal/usecase"
)

// Ledger is an in-memory store shared by the mock repositories. Units of
// work are serialized: Begin takes the store for the caller and snapshots
// it, Rollback restores the snapshot unless Commit ran first.
type Ledger struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	balances     map[domain.BalanceKey]*domain.Balance
	transactions map[string]*domain.Transaction
	order        []string
	earnings     map[string]*domain.Earning
	events       []*domain.OutboxEvent
	currencies   map[string]*domain.Currency
	customers    map[string]*domain.Customer
	seq          int

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	Balances     *MockBalanceRepository
	Transactions *MockTransactionRepository
	Earnings     *MockEarningRepository
	Currencies   *MockCurrencyRepository
	Customers    *MockCustomerRepository
	Outbox       *MockOutboxRepository
}

func NewLedger() *Ledger {
	l := &Ledger{
		balances:     make(map[domain.BalanceKey]*domain.Balance),
		transactions: make(map[string]*domain.Transaction),
		earnings:     make(map[string]*domain.Earning),
		currencies:   make(map[string]*domain.Currency),
		customers:    make(map[string]*domain.Customer),
	}
	l.Balances = &MockBalanceRepository{l: l}
	l.Transactions = &MockTransactionRepository{l: l}
	l.Earnings = &MockEarningRepository{l: l}
	l.Currencies = &MockCurrencyRepository{l: l}
	l.Customers = &MockCustomerRepository{l: l}
	l.Outbox = &MockOutboxRepository{l: l}
	return l
}

type ledgerState struct {
	balances     map[domain.BalanceKey]*domain.Balance
	transactions map[string]*domain.Transaction
	order        []string
	earnings     map[string]*domain.Earning
	events       []*domain.OutboxEvent
}

func (l *Ledger) snapshot() *ledgerState {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s := &ledgerState{
		balances:     make(map[domain.BalanceKey]*domain.Balance, len(l.balances)),
		transactions: make(map[string]*domain.Transaction, len(l.transactions)),
		order:        append([]string(nil), l.order...),
		earnings:     make(map[string]*domain.Earning, len(l.earnings)),
		events:       make([]*domain.OutboxEvent, 0, len(l.events)),
	}
	for k, b := range l.balances {
		s.balances[k] = b.Clone()
	}
	for id, t := range l.transactions {
		s.transactions[id] = cloneTransaction(t)
	}
	for id, e := range l.earnings {
		s.earnings[id] = cloneEarning(e)
	}
	for _, e := range l.events {
		c := *e
		s.events = append(s.events, &c)
	}
	return s
}

func (l *Ledger) restore(s *ledgerState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances = s.balances
	l.transactions = s.transactions
	l.order = s.order
	l.earnings = s.earnings
	l.events = s.events
}

func (l *Ledger) nextID(prefix string) string {
	l.seq++
	return fmt.Sprintf("%s-%d", prefix, l.seq)
}

// Begin starts a unit of work.
func (l *Ledger) Begin(ctx context.Context) (usecase.Transaction, error) {
	if l.BeginFunc != nil {
		return l.BeginFunc(ctx)
	}
	l.txMu.Lock()
	return &ledgerTx{l: l, saved: l.snapshot()}, nil
}

type ledgerTx struct {
	l     *Ledger
	saved *ledgerState
	done  bool
}

func (t *ledgerTx) Commit(ctx context.Context) error {
	if t.done {
		return fmt.Errorf("transaction already closed")
	}
	t.done = true
	t.l.txMu.Unlock()
	return nil
}

func (t *ledgerTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.l.restore(t.saved)
	t.l.txMu.Unlock()
	return nil
}

// Balance returns a copy of the stored row for key.
func (l *Ledger) Balance(key domain.BalanceKey) (*domain.Balance, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.balances[key]
	if !ok {
		return nil, false
	}
	return b.Clone(), true
}

// SeedBalance stores a row with the given buckets.
func (l *Ledger) SeedBalance(key domain.BalanceKey, cash, check decimal.Decimal) *domain.Balance {
	l.mu.Lock()
	defer l.mu.Unlock()
	b := domain.NewBalance(l.nextID("bal"), key, time.Now().UTC())
	b.CashBalance = cash
	b.CheckBalance = check
	l.balances[key] = b
	return b.Clone()
}

// TransactionCount returns the number of stored transactions.
func (l *Ledger) TransactionCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.transactions)
}

// EarningList returns copies of all stored earnings.
func (l *Ledger) EarningList() []*domain.Earning {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*domain.Earning, 0, len(l.earnings))
	for _, e := range l.earnings {
		out = append(out, cloneEarning(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// EventList returns all outbox events in write order.
func (l *Ledger) EventList() []*domain.OutboxEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), l.events...)
}

func cloneTransaction(t *domain.Transaction) *domain.Transaction {
	c := *t
	if t.CustomerID != nil {
		id := *t.CustomerID
		c.CustomerID = &id
	}
	c.Currency = nil
	c.Customer = nil
	return &c
}

func cloneEarning(e *domain.Earning) *domain.Earning {
	c := *e
	if e.TransactionID != nil {
		id := *e.TransactionID
		c.TransactionID = &id
	}
	return &c
}

// MockBalanceRepository is a mock implementation of BalanceRepository.
type MockBalanceRepository struct {
	l *Ledger

	GetOrCreateForUpdateFunc func(ctx context.Context, tx usecase.Transaction, key domain.BalanceKey) (*domain.Balance, error)
	UpdateFunc               func(ctx context.Context, tx usecase.Transaction, balance *domain.Balance) error
	SetStarredFunc           func(ctx context.Context, tx usecase.Transaction, key domain.BalanceKey, starred bool, updatedAt time.Time) error
	GetFunc                  func(ctx context.Context, key domain.BalanceKey) (*domain.Balance, error)
	ListAllFunc              func(ctx context.Context, tx usecase.Transaction) ([]*domain.Balance, error)
}

func (m *MockBalanceRepository) GetOrCreateForUpdate(ctx context.Context, tx usecase.Transaction, key domain.BalanceKey) (*domain.Balance, error) {
	if m.GetOrCreateForUpdateFunc != nil {
		return m.GetOrCreateForUpdateFunc(ctx, tx, key)
	}
	m.l.mu.Lock()
	defer m.l.mu.Unlock()
	b, ok := m.l.balances[key]
	if !ok {
		b = domain.NewBalance(m.l.nextID("bal"), key, time.Now().UTC())
		m.l.balances[key] = b
	}
	return b.Clone(), nil
}

func (m *MockBalanceRepository) Update(ctx context.Context, tx usecase.Transaction, balance *domain.Balance) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, balance)
	}
	m.l.mu.Lock()
	defer m.l.mu.Unlock()
	key := balance.Key()
	if _, ok := m.l.balances[key]; !ok {
		return domain.ErrBalanceNotFound
	}
	m.l.balances[key] = balance.Clone()
	return nil
}

func (m *MockBalanceRepository) SetStarred(ctx context.Context, tx usecase.Transaction, key domain.BalanceKey, starred bool, updatedAt time.Time) error {
	if m.SetStarredFunc != nil {
		return m.SetStarredFunc(ctx, tx, key, starred, updatedAt)
	}
	m.l.mu.Lock()
	defer m.l.mu.Unlock()
	b, ok := m.l.balances[key]
	if !ok {
		return domain.ErrBalanceNotFound
	}
	b.Starred = starred
	b.UpdatedAt = updatedAt
	return nil
}

func (m *MockBalanceRepository) Get(ctx context.Context, key domain.BalanceKey) (*domain.Balance, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.l.mu.RLock()
	defer m.l.mu.RUnlock()
	b, ok := m.l.balances[key]
	if !ok {
		return nil, domain.ErrBalanceNotFound
	}
	return b.Clone(), nil
}

func (m *MockBalanceRepository) ListCompany(ctx context.Context) ([]*domain.Balance, error) {
	return m.list(func(b *domain.Balance) bool { return b.CustomerID == nil }), nil
}

func (m *MockBalanceRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Balance, error) {
	return m.list(func(b *domain.Balance) bool {
		return b.CustomerID != nil && *b.CustomerID == customerID
	}), nil
}

func (m *MockBalanceRepository) ListAll(ctx context.Context, tx usecase.Transaction) ([]*domain.Balance, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx, tx)
	}
	return m.list(func(*domain.Balance) bool { return true }), nil
}

func (m *MockBalanceRepository) list(keep func(*domain.Balance) bool) []*domain.Balance {
	m.l.mu.RLock()
	defer m.l.mu.RUnlock()
	var out []*domain.Balance
	for _, b := range m.l.balances {
		if keep(b) {
			out = append(out, b.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Starred != out[j].Starred {
			return out[i].Starred
		}
		return out[i].Key().Less(out[j].Key())
	})
	return out
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	l *Ledger

	CreateFunc  func(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Transaction, error)
	UpdateFunc  func(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error
	DeleteFunc  func(ctx context.Context, tx usecase.Transaction, id string) error
	EachFunc    func(ctx context.Context, tx usecase.Transaction, fn func(*domain.Transaction) error) error
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, t)
	}
	m.l.mu.Lock()
	defer m.l.mu.Unlock()
	m.l.transactions[t.ID] = cloneTransaction(t)
	m.l.order = append(m.l.order, t.ID)
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.l.mu.RLock()
	defer m.l.mu.RUnlock()
	t, ok := m.l.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	c := cloneTransaction(t)
	if cur, ok := m.l.currencies[c.CurrencyID]; ok {
		cc := *cur
		c.Currency = &cc
	}
	if c.CustomerID != nil {
		if cust, ok := m.l.customers[*c.CustomerID]; ok {
			cc := *cust
			c.Customer = &cc
		}
	}
	return c, nil
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	m.l.mu.RLock()
	defer m.l.mu.RUnlock()
	t, ok := m.l.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return cloneTransaction(t), nil
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, t)
	}
	m.l.mu.Lock()
	defer m.l.mu.Unlock()
	if _, ok := m.l.transactions[t.ID]; !ok {
		return domain.ErrTransactionNotFound
	}
	m.l.transactions[t.ID] = cloneTransaction(t)
	return nil
}

func (m *MockTransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.l.mu.Lock()
	defer m.l.mu.Unlock()
	if _, ok := m.l.transactions[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(m.l.transactions, id)
	for i, v := range m.l.order {
		if v == id {
			m.l.order = append(m.l.order[:i:i], m.l.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockTransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	m.l.mu.RLock()
	defer m.l.mu.RUnlock()
	var out []*domain.Transaction
	for i := len(m.l.order) - 1; i >= 0; i-- {
		t := m.l.transactions[m.l.order[i]]
		if filter.CustomerID != "" && (t.CustomerID == nil || *t.CustomerID != filter.CustomerID) {
			continue
		}
		if filter.CurrencyID != "" && t.CurrencyID != filter.CurrencyID {
			continue
		}
		if filter.Movement != "" && t.Movement != filter.Movement {
			continue
		}
		if filter.From != nil && t.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && t.CreatedAt.After(*filter.To) {
			continue
		}
		out = append(out, cloneTransaction(t))
	}
	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *MockTransactionRepository) Stats(ctx context.Context, from, to *time.Time) ([]*domain.TransactionStat, error) {
	m.l.mu.RLock()
	defer m.l.mu.RUnlock()
	type statKey struct {
		movement domain.Movement
		currency string
	}
	stats := make(map[statKey]*domain.TransactionStat)
	for _, id := range m.l.order {
		t := m.l.transactions[id]
		if from != nil && t.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && t.CreatedAt.After(*to) {
			continue
		}
		k := statKey{t.Movement, t.CurrencyID}
		s, ok := stats[k]
		if !ok {
			s = &domain.TransactionStat{Movement: t.Movement, CurrencyID: t.CurrencyID}
			stats[k] = s
		}
		s.Count++
		s.TotalAmount = s.TotalAmount.Add(t.Amount)
		s.TotalCommission = s.TotalCommission.Add(t.Commission())
	}
	out := make([]*domain.TransactionStat, 0, len(stats))
	for _, s := range stats {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Movement != out[j].Movement {
			return out[i].Movement < out[j].Movement
		}
		return out[i].CurrencyID < out[j].CurrencyID
	})
	return out, nil
}

func (m *MockTransactionRepository) Each(ctx context.Context, tx usecase.Transaction, fn func(*domain.Transaction) error) error {
	if m.EachFunc != nil {
		return m.EachFunc(ctx, tx, fn)
	}
	m.l.mu.RLock()
	ts := make([]*domain.Transaction, 0, len(m.l.order))
	for _, id := range m.l.order {
		ts = append(ts, cloneTransaction(m.l.transactions[id]))
	}
	m.l.mu.RUnlock()

	for _, t := range ts {
		if err := fn(t); err != nil {
			return err
		}
	}
	return nil
}

// MockEarningRepository is a mock implementation of EarningRepository.
type MockEarningRepository struct {
	l *Ledger

	CreateFunc func(ctx context.Context, tx usecase.Transaction, e *domain.Earning) error
	UpdateFunc func(ctx context.Context, tx usecase.Transaction, e *domain.Earning) error
	TotalsFunc func(ctx context.Context, group domain.EarningGroup, from, to *time.Time) ([]*domain.EarningTotal, error)
}

func (m *MockEarningRepository) Create(ctx context.Context, tx usecase.Transaction, e *domain.Earning) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, e)
	}
	m.l.mu.Lock()
	defer m.l.mu.Unlock()
	m.l.earnings[e.ID] = cloneEarning(e)
	return nil
}

func (m *MockEarningRepository) GetByID(ctx context.Context, id string) (*domain.Earning, error) {
	m.l.mu.RLock()
	defer m.l.mu.RUnlock()
	e, ok := m.l.earnings[id]
	if !ok {
		return nil, domain.ErrEarningNotFound
	}
	return cloneEarning(e), nil
}

func (m *MockEarningRepository) GetByTransaction(ctx context.Context, tx usecase.Transaction, transactionID string) (*domain.Earning, error) {
	m.l.mu.RLock()
	defer m.l.mu.RUnlock()
	for _, e := range m.l.earnings {
		if e.TransactionID != nil && *e.TransactionID == transactionID {
			return cloneEarning(e), nil
		}
	}
	return nil, domain.ErrEarningNotFound
}

func (m *MockEarningRepository) Update(ctx context.Context, tx usecase.Transaction, e *domain.Earning) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, e)
	}
	m.l.mu.Lock()
	defer m.l.mu.Unlock()
	if _, ok := m.l.earnings[e.ID]; !ok {
		return domain.ErrEarningNotFound
	}
	m.l.earnings[e.ID] = cloneEarning(e)
	return nil
}

func (m *MockEarningRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	m.l.mu.Lock()
	defer m.l.mu.Unlock()
	if _, ok := m.l.earnings[id]; !ok {
		return domain.ErrEarningNotFound
	}
	delete(m.l.earnings, id)
	return nil
}

func (m *MockEarningRepository) DeleteByTransaction(ctx context.Context, tx usecase.Transaction, transactionID string) error {
	m.l.mu.Lock()
	defer m.l.mu.Unlock()
	for id, e := range m.l.earnings {
		if e.TransactionID != nil && *e.TransactionID == transactionID {
			delete(m.l.earnings, id)
		}
	}
	return nil
}

func (m *MockEarningRepository) List(ctx context.Context, filter domain.EarningFilter) ([]*domain.Earning, error) {
	m.l.mu.RLock()
	defer m.l.mu.RUnlock()
	var out []*domain.Earning
	for _, e := range m.l.earnings {
		if filter.CurrencyID != "" && e.CurrencyID != filter.CurrencyID {
			continue
		}
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		if filter.From != nil && e.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.Date.After(*filter.To) {
			continue
		}
		out = append(out, cloneEarning(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *MockEarningRepository) Totals(ctx context.Context, group domain.EarningGroup, from, to *time.Time) ([]*domain.EarningTotal, error) {
	if m.TotalsFunc != nil {
		return m.TotalsFunc(ctx, group, from, to)
	}
	m.l.mu.RLock()
	defer m.l.mu.RUnlock()
	totals := make(map[string]*domain.EarningTotal)
	for _, e := range m.l.earnings {
		if from != nil && e.Date.Before(*from) {
			continue
		}
		if to != nil && e.Date.After(*to) {
			continue
		}
		key := e.CurrencyID
		if group == domain.EarningGroupType {
			key = string(e.Type)
		}
		t, ok := totals[key]
		if !ok {
			t = &domain.EarningTotal{Key: key}
			totals[key] = t
		}
		t.Count++
		t.Total = t.Total.Add(e.Amount)
	}
	out := make([]*domain.EarningTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// MockCurrencyRepository is a mock implementation of CurrencyRepository.
type MockCurrencyRepository struct {
	l *Ledger
}

func (m *MockCurrencyRepository) Create(ctx context.Context, c *domain.Currency) error {
	m.l.mu.Lock()
	defer m.l.mu.Unlock()
	for _, existing := range m.l.currencies {
		if existing.Code == c.Code {
			return domain.NewValidationError("code", "already exists")
		}
	}
	cc := *c
	m.l.currencies[c.ID] = &cc
	return nil
}

func (m *MockCurrencyRepository) GetByID(ctx context.Context, id string) (*domain.Currency, error) {
	m.l.mu.RLock()
	defer m.l.mu.RUnlock()
	c, ok := m.l.currencies[id]
	if !ok {
		return nil, domain.ErrCurrencyNotFound
	}
	cc := *c
	return &cc, nil
}

func (m *MockCurrencyRepository) List(ctx context.Context) ([]*domain.Currency, error) {
	m.l.mu.RLock()
	defer m.l.mu.RUnlock()
	out := make([]*domain.Currency, 0, len(m.l.currencies))
	for _, c := range m.l.currencies {
		cc := *c
		out = append(out, &cc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// MockCustomerRepository is a mock implementation of CustomerRepository.
type MockCustomerRepository struct {
	l *Ledger
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	m.l.mu.Lock()
	defer m.l.mu.Unlock()
	cc := *c
	m.l.customers[c.ID] = &cc
	return nil
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	m.l.mu.RLock()
	defer m.l.mu.RUnlock()
	c, ok := m.l.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	cc := *c
	return &cc, nil
}

func (m *MockCustomerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	m.l.mu.RLock()
	defer m.l.mu.RUnlock()
	out := make([]*domain.Customer, 0, len(m.l.customers))
	for _, c := range m.l.customers {
		cc := *c
		out = append(out, &cc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	l *Ledger

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.l.mu.Lock()
	defer m.l.mu.Unlock()
	m.l.events = append(m.l.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.l.mu.RLock()
	defer m.l.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.l.events {
		if !e.Published {
			out = append(out, e)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.l.mu.Lock()
	defer m.l.mu.Unlock()
	for _, e := range m.l.events {
		if e.ID == id {
			at := publishedAt
			e.Published = true
			e.PublishedAt = &at
			return nil
		}
	}
	return nil
}

func (m *MockOutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	m.l.mu.RLock()
	defer m.l.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.l.events {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			out = append(out, e)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.l.mu.Lock()
	defer m.l.mu.Unlock()
	kept := m.l.events[:0]
	for _, e := range m.l.events {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	m.l.events = kept
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%04d", m.counter)
}

// MemoryCache is an in-memory Cache that counts hits and writes.
type MemoryCache struct {
	mu   sync.Mutex
	data map[string][]byte

	Hits int
	Sets int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string][]byte)}
}

func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, usecase.ErrCacheMiss
	}
	m.Hits++
	return v, nil
}

func (m *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.Sets++
	return nil
}

func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Stored returns the raw value held for key.
func (m *MockIdempotencyStore) Stored(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}
