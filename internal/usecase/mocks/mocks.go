package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/pointswallet/internal/domain"
	"github.com/iho/pointswallet/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc     func(ctx context.Context, account *domain.Account) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.Account, error)
	GetByEmailFunc func(ctx context.Context, email string) (*domain.Account, error)
	GetByNameFunc  func(ctx context.Context, name string) (*domain.Account, error)
	UpdateFunc     func(ctx context.Context, account *domain.Account) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Seed adds an account to the in-memory store.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.Email == account.Email {
			return domain.ErrDuplicateEmail
		}
	}
	stored := *account
	m.accounts[account.ID] = &stored
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		out := *acc
		return &out, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.Email == email {
			out := *acc
			return &out, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByName(ctx context.Context, name string) (*domain.Account, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, name)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.Name == name {
			out := *acc
			return &out, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

// MockWalletRepository is a mock implementation of WalletRepository.
type MockWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet

	GetByAccountIDFunc           func(ctx context.Context, accountID string) (*domain.Wallet, error)
	GetByAccountIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, accountID string) (*domain.Wallet, error)
	GetByAccountIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, accountIDs []string) ([]*domain.Wallet, error)
	UpdateBalancesFunc           func(ctx context.Context, tx usecase.Transaction, accountID string, cash decimal.Decimal, points int64, updatedAt time.Time) error
	UpsertCashCreditFunc         func(ctx context.Context, tx usecase.Transaction, accountID string, amount decimal.Decimal, now time.Time) error
	UpsertPointsCreditFunc       func(ctx context.Context, tx usecase.Transaction, accountID string, points int64, now time.Time) error
}

func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[string]*domain.Wallet),
	}
}

// Seed adds a wallet to the in-memory store.
func (m *MockWalletRepository) Seed(wallet *domain.Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet.AccountID] = wallet
}

// Wallet returns the stored wallet for an account, or nil.
func (m *MockWalletRepository) Wallet(accountID string) *domain.Wallet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.wallets[accountID]
}

func (m *MockWalletRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.Wallet, error) {
	if m.GetByAccountIDFunc != nil {
		return m.GetByAccountIDFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.wallets[accountID]; ok {
		return w, nil
	}
	return nil, domain.ErrWalletNotFound
}

func (m *MockWalletRepository) GetByAccountIDForUpdate(ctx context.Context, tx usecase.Transaction, accountID string) (*domain.Wallet, error) {
	if m.GetByAccountIDForUpdateFunc != nil {
		return m.GetByAccountIDForUpdateFunc(ctx, tx, accountID)
	}
	return m.GetByAccountID(ctx, accountID)
}

func (m *MockWalletRepository) GetByAccountIDsForUpdate(ctx context.Context, tx usecase.Transaction, accountIDs []string) ([]*domain.Wallet, error) {
	if m.GetByAccountIDsForUpdateFunc != nil {
		return m.GetByAccountIDsForUpdateFunc(ctx, tx, accountIDs)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var wallets []*domain.Wallet
	for _, id := range accountIDs {
		if w, ok := m.wallets[id]; ok {
			wallets = append(wallets, w)
		}
	}
	return wallets, nil
}

func (m *MockWalletRepository) UpdateBalances(ctx context.Context, tx usecase.Transaction, accountID string, cash decimal.Decimal, points int64, updatedAt time.Time) error {
	if m.UpdateBalancesFunc != nil {
		return m.UpdateBalancesFunc(ctx, tx, accountID, cash, points, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[accountID]
	if !ok {
		return domain.ErrWalletNotFound
	}
	w.CashBalance = cash
	w.PointsBalance = points
	w.UpdatedAt = updatedAt
	return nil
}

func (m *MockWalletRepository) UpsertCashCredit(ctx context.Context, tx usecase.Transaction, accountID string, amount decimal.Decimal, now time.Time) error {
	if m.UpsertCashCreditFunc != nil {
		return m.UpsertCashCreditFunc(ctx, tx, accountID, amount, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.wallets[accountID]; ok {
		w.CashBalance = w.CashBalance.Add(amount)
		w.UpdatedAt = now
		return nil
	}
	m.wallets[accountID] = &domain.Wallet{
		AccountID:   accountID,
		CashBalance: amount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return nil
}

func (m *MockWalletRepository) UpsertPointsCredit(ctx context.Context, tx usecase.Transaction, accountID string, points int64, now time.Time) error {
	if m.UpsertPointsCreditFunc != nil {
		return m.UpsertPointsCreditFunc(ctx, tx, accountID, points, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.wallets[accountID]; ok {
		w.PointsBalance += points
		w.UpdatedAt = now
		return nil
	}
	m.wallets[accountID] = &domain.Wallet{
		AccountID:     accountID,
		CashBalance:   decimal.Zero,
		PointsBalance: points,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu      sync.RWMutex
	entries []*domain.Transaction

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, entry *domain.Transaction) error
	ListByAccountFunc func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

// Entries returns all created entries, in insertion order.
func (m *MockTransactionRepository) Entries() []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Transaction, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].AccountID == accountID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

// MockTransaction is a mock database transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	Transactions []*MockTransaction
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	tx := &MockTransaction{}
	m.Transactions = append(m.Transactions, tx)
	return tx, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string

	mu      sync.Mutex
	counter int
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
	return "id-" + string(rune('0'+m.counter%10)) + "-" + time.Now().Format("150405.000000")
}

// MockRetrier runs the operation once without retrying.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}
