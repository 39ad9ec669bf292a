// Package ledger is the durable reward economy: per-account point and coin
// balances plus an append-only, age-pruned transaction log. It turns a
// finished match's score map into tie-aware payouts.
package ledger

import (
	"sort"
	"sync"
	"time"

	apperrors "github.com/minyeol/songquiz/internal/errors"
	"github.com/minyeol/songquiz/internal/logger"
	"github.com/minyeol/songquiz/internal/models"
)

const (
	// InitialCoins seeds a newly seen account.
	InitialCoins = 1000
	// RetentionDays bounds the transaction log; older entries are dropped on
	// load and before each save.
	RetentionDays = 10
	// HistoryDisplayLimit caps a transaction history listing.
	HistoryDisplayLimit = 30
)

// Ledger is the in-memory authoritative copy of the reward store. A single
// mutex serializes every mutation across concluding matches and spend paths;
// reads copy out under the same lock so no partial transaction is visible.
type Ledger struct {
	mu           sync.Mutex
	accounts     map[models.AccountID]*models.Account
	transactions []models.Transaction
	nextTID      int64

	store *Store
	log   *logger.Logger
	now   func() time.Time // swapped out in tests
}

// Open loads the ledger from the store and prunes expired transactions.
func Open(store *Store) (*Ledger, error) {
	l := &Ledger{
		accounts: make(map[models.AccountID]*models.Account),
		store:    store,
		log:      logger.Default().WithPrefix("ledger"),
		now:      time.Now,
	}

	accounts, err := store.LoadAccounts()
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		acct := a
		l.accounts[a.ID] = &acct
	}

	transactions, err := store.LoadTransactions()
	if err != nil {
		return nil, err
	}
	l.transactions = transactions
	for _, t := range transactions {
		if t.TID > l.nextTID {
			l.nextTID = t.TID
		}
	}
	l.pruneLocked(l.now())

	l.log.Info("ledger loaded: %d accounts, %d transactions", len(l.accounts), len(l.transactions))
	return l, nil
}

// ApplyMatchResult converts a match's final scores into rewards: lifetime
// points grow by the match score and coins by the tie-aware rank payout.
// Equal scores share a rank; the rank counter advances by one per distinct
// score, and a participant at rank r of n earns n-r coins.
func (l *Ledger) ApplyMatchResult(scores map[models.AccountID]int) error {
	if len(scores) == 0 {
		return nil
	}

	type standing struct {
		id     models.AccountID
		points int
	}
	standings := make([]standing, 0, len(scores))
	for id, points := range scores {
		standings = append(standings, standing{id, points})
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].points != standings[j].points {
			return standings[i].points > standings[j].points
		}
		return standings[i].id < standings[j].id
	})

	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(standings)
	rank := 0
	for i, st := range standings {
		if i == 0 || st.points != standings[i-1].points {
			rank++
		}
		payout := n - rank

		acct := l.accountLocked(st.id)
		acct.Point += st.points
		acct.Coin += payout
		l.appendTransactionLocked(st.id, payout, models.CategoryQuizReward, false)
		l.log.Debug("match reward: uid=%d points=%d rank=%d payout=%d", st.id, st.points, rank, payout)
	}

	if err := l.saveLocked(); err != nil {
		// In-memory state stays authoritative until the next successful save.
		l.log.Warn("failed to persist match rewards: %v", err)
	}
	l.log.Info("match rewards applied: participants=%d", n)
	return nil
}

// RecordTransaction applies a coin delta for an external spend path such as a
// skip purchase. A delta that would drive the balance negative is rejected
// with an insufficient-funds error and the ledger is left unchanged.
func (l *Ledger) RecordTransaction(id models.AccountID, delta int, category models.TransactionCategory) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	acct := l.accountLocked(id)
	if acct.Coin+delta < 0 {
		return apperrors.NewInsufficientFundsError(acct.Coin, delta)
	}

	acct.Coin += delta
	l.appendTransactionLocked(id, delta, category, delta < 0)
	if err := l.saveLocked(); err != nil {
		l.log.Warn("failed to persist transaction: %v", err)
	}
	return nil
}

// CoinBalance returns the spendable balance for the account, creating it with
// the initial grant if it has never been seen.
func (l *Ledger) CoinBalance(id models.AccountID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.accountLocked(id).Coin
}

// AccountsRankedByCoin lists every account ordered by coin balance with
// tie-aware dense ranks.
func (l *Ledger) AccountsRankedByCoin() []models.RankedAccount {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rankedLocked(func(a models.Account) int { return a.Coin })
}

// AccountsRankedByPoint lists every account ordered by lifetime points with
// tie-aware dense ranks.
func (l *Ledger) AccountsRankedByPoint() []models.RankedAccount {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rankedLocked(func(a models.Account) int { return a.Point })
}

// History returns the account's transactions within the retention window,
// most recent first, capped at limit (and never more than the display cap).
func (l *Ledger) History(id models.AccountID, limit int) []models.Transaction {
	if limit <= 0 || limit > HistoryDisplayLimit {
		limit = HistoryDisplayLimit
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().AddDate(0, 0, -RetentionDays)
	out := make([]models.Transaction, 0, limit)
	for i := len(l.transactions) - 1; i >= 0 && len(out) < limit; i-- {
		t := l.transactions[i]
		if t.UID != id || t.When.Time().Before(cutoff) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Maintain prunes expired transactions and flushes the ledger. It backs the
// periodic maintenance job and the shutdown flush.
func (l *Ledger) Maintain() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.saveLocked()
}

func (l *Ledger) accountLocked(id models.AccountID) *models.Account {
	acct, ok := l.accounts[id]
	if !ok {
		acct = &models.Account{ID: id, Coin: InitialCoins}
		l.accounts[id] = acct
		l.log.Debug("account created: uid=%d", id)
	}
	return acct
}

func (l *Ledger) appendTransactionLocked(id models.AccountID, delta int, category models.TransactionCategory, isBuy bool) {
	l.nextTID++
	l.transactions = append(l.transactions, models.Transaction{
		TID:      l.nextTID,
		UID:      id,
		Delta:    delta,
		Category: category,
		IsBuy:    isBuy,
		When:     models.Timestamp(l.now().In(models.KST)),
	})
}

// pruneLocked drops every transaction older than the retention window.
func (l *Ledger) pruneLocked(now time.Time) {
	cutoff := now.AddDate(0, 0, -RetentionDays)
	kept := l.transactions[:0]
	dropped := 0
	for _, t := range l.transactions {
		if t.When.Time().Before(cutoff) {
			dropped++
			continue
		}
		kept = append(kept, t)
	}
	l.transactions = kept
	if dropped > 0 {
		l.log.Info("pruned %d expired transactions", dropped)
	}
}

// saveLocked prunes and persists both collections.
func (l *Ledger) saveLocked() error {
	l.pruneLocked(l.now())

	accounts := make([]models.Account, 0, len(l.accounts))
	for _, acct := range l.accounts {
		accounts = append(accounts, *acct)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })

	if err := l.store.SaveAccounts(accounts); err != nil {
		return err
	}
	return l.store.SaveTransactions(l.transactions)
}

func (l *Ledger) rankedLocked(value func(models.Account) int) []models.RankedAccount {
	accounts := make([]models.Account, 0, len(l.accounts))
	for _, acct := range l.accounts {
		accounts = append(accounts, *acct)
	}
	sort.Slice(accounts, func(i, j int) bool {
		if value(accounts[i]) != value(accounts[j]) {
			return value(accounts[i]) > value(accounts[j])
		}
		return accounts[i].ID < accounts[j].ID
	})

	ranked := make([]models.RankedAccount, 0, len(accounts))
	rank := 0
	for i, a := range accounts {
		if i == 0 || value(a) != value(accounts[i-1]) {
			rank++
		}
		ranked = append(ranked, models.RankedAccount{Account: a, Rank: rank})
	}
	return ranked
}
