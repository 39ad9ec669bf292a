package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/minyeol/songquiz/internal/errors"
	"github.com/minyeol/songquiz/internal/models"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	l, err := Open(store)
	require.NoError(t, err)
	return l
}

func TestApplyMatchResult_TieAwarePayouts(t *testing.T) {
	l := openTestLedger(t)

	// Four participants, two sharing the top score. Dense ranks are 1,1,2,3
	// and each earns n-rank coins on top of the initial grant.
	err := l.ApplyMatchResult(map[models.AccountID]int{
		1: 500,
		2: 500,
		3: 400,
		4: 100,
	})
	require.NoError(t, err)

	assert.Equal(t, InitialCoins+3, l.CoinBalance(1))
	assert.Equal(t, InitialCoins+3, l.CoinBalance(2))
	assert.Equal(t, InitialCoins+2, l.CoinBalance(3))
	assert.Equal(t, InitialCoins+1, l.CoinBalance(4))
}

func TestApplyMatchResult_AccumulatesPoints(t *testing.T) {
	l := openTestLedger(t)

	require.NoError(t, l.ApplyMatchResult(map[models.AccountID]int{1: 40}))
	require.NoError(t, l.ApplyMatchResult(map[models.AccountID]int{1: 60}))

	ranked := l.AccountsRankedByPoint()
	require.Len(t, ranked, 1)
	assert.Equal(t, 100, ranked[0].Point)
}

func TestApplyMatchResult_SoloParticipantEarnsNothing(t *testing.T) {
	l := openTestLedger(t)

	require.NoError(t, l.ApplyMatchResult(map[models.AccountID]int{9: 80}))

	// Rank 1 of 1 pays out 1-1 = 0 coins; points still accrue.
	assert.Equal(t, InitialCoins, l.CoinBalance(9))
	history := l.History(9, 0)
	require.Len(t, history, 1)
	assert.Equal(t, 0, history[0].Delta)
	assert.Equal(t, models.CategoryQuizReward, history[0].Category)
	assert.False(t, history[0].IsBuy)
}

func TestApplyMatchResult_EmptyScoresIsNoop(t *testing.T) {
	l := openTestLedger(t)
	require.NoError(t, l.ApplyMatchResult(nil))
	assert.Empty(t, l.AccountsRankedByCoin())
}

func TestRecordTransaction_SpendAndRefusal(t *testing.T) {
	l := openTestLedger(t)

	require.NoError(t, l.RecordTransaction(5, -300, models.CategorySongSkip))
	assert.Equal(t, InitialCoins-300, l.CoinBalance(5))

	err := l.RecordTransaction(5, -(InitialCoins - 300 + 1), models.CategorySongSkip)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeInsufficientFunds, appErr.Code)

	// The refused spend left no trace.
	assert.Equal(t, InitialCoins-300, l.CoinBalance(5))
	assert.Len(t, l.History(5, 0), 1)
}

func TestRecordTransaction_IsBuyFollowsSign(t *testing.T) {
	l := openTestLedger(t)

	require.NoError(t, l.RecordTransaction(5, -10, models.CategorySongSkip))
	require.NoError(t, l.RecordTransaction(5, 25, models.CategoryOther))

	history := l.History(5, 0)
	require.Len(t, history, 2)
	// Most recent first.
	assert.Equal(t, 25, history[0].Delta)
	assert.False(t, history[0].IsBuy)
	assert.Equal(t, -10, history[1].Delta)
	assert.True(t, history[1].IsBuy)
}

func TestCoinBalance_SeedsNewAccount(t *testing.T) {
	l := openTestLedger(t)
	assert.Equal(t, InitialCoins, l.CoinBalance(42))
}

func TestLeaderboards_DenseRanks(t *testing.T) {
	l := openTestLedger(t)

	require.NoError(t, l.ApplyMatchResult(map[models.AccountID]int{
		1: 300,
		2: 300,
		3: 200,
	}))

	byPoint := l.AccountsRankedByPoint()
	require.Len(t, byPoint, 3)
	assert.Equal(t, 1, byPoint[0].Rank)
	assert.Equal(t, 1, byPoint[1].Rank)
	assert.Equal(t, 2, byPoint[2].Rank)
	assert.Equal(t, models.AccountID(3), byPoint[2].ID)

	// Coins: 1 and 2 each got the rank-1 payout, 3 got less.
	byCoin := l.AccountsRankedByCoin()
	require.Len(t, byCoin, 3)
	assert.Equal(t, 1, byCoin[0].Rank)
	assert.Equal(t, 1, byCoin[1].Rank)
	assert.Equal(t, 2, byCoin[2].Rank)
}

func TestHistory_LimitAndOrder(t *testing.T) {
	l := openTestLedger(t)

	for i := 0; i < 40; i++ {
		require.NoError(t, l.RecordTransaction(7, 1, models.CategoryOther))
	}

	history := l.History(7, 0)
	assert.Len(t, history, HistoryDisplayLimit)

	history = l.History(7, 5)
	require.Len(t, history, 5)
	for i := 1; i < len(history); i++ {
		assert.Greater(t, history[i-1].TID, history[i].TID, "history must be newest first")
	}

	// A limit above the display cap is clamped.
	history = l.History(7, 100)
	assert.Len(t, history, HistoryDisplayLimit)
}

func TestHistory_OtherAccountsExcluded(t *testing.T) {
	l := openTestLedger(t)
	require.NoError(t, l.RecordTransaction(1, 5, models.CategoryOther))
	require.NoError(t, l.RecordTransaction(2, 5, models.CategoryOther))

	history := l.History(1, 0)
	require.Len(t, history, 1)
	assert.Equal(t, models.AccountID(1), history[0].UID)
}

func TestRetention_ExpiredTransactionsPruned(t *testing.T) {
	l := openTestLedger(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, models.KST)
	l.now = func() time.Time { return base }
	require.NoError(t, l.RecordTransaction(1, 10, models.CategoryOther))

	// Nine days later the entry is still inside the window.
	l.now = func() time.Time { return base.AddDate(0, 0, 9) }
	assert.Len(t, l.History(1, 0), 1)

	// Eleven days later it is gone, and maintenance drops it for good.
	l.now = func() time.Time { return base.AddDate(0, 0, 11) }
	assert.Empty(t, l.History(1, 0))
	require.NoError(t, l.Maintain())
	assert.Empty(t, l.transactions)
}

func TestOpen_RestoresStateAndResumesTIDs(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	l, err := Open(store)
	require.NoError(t, err)
	require.NoError(t, l.ApplyMatchResult(map[models.AccountID]int{1: 50, 2: 30}))
	require.NoError(t, l.RecordTransaction(1, -100, models.CategorySongSkip))

	// Reopen from the same directory.
	store2, err := NewStore(dir)
	require.NoError(t, err)
	l2, err := Open(store2)
	require.NoError(t, err)

	assert.Equal(t, l.CoinBalance(1), l2.CoinBalance(1))
	assert.Equal(t, l.CoinBalance(2), l2.CoinBalance(2))

	// New transactions continue the identifier sequence instead of reusing it.
	maxBefore := l2.nextTID
	require.NoError(t, l2.RecordTransaction(2, 5, models.CategoryOther))
	history := l2.History(2, 1)
	require.Len(t, history, 1)
	assert.Equal(t, maxBefore+1, history[0].TID)
}

func TestOpen_PrunesExpiredOnLoad(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	old := models.Timestamp(time.Now().In(models.KST).AddDate(0, 0, -RetentionDays-1))
	fresh := models.Timestamp(time.Now().In(models.KST))
	require.NoError(t, store.SaveTransactions([]models.Transaction{
		{TID: 1, UID: 1, Delta: 10, Category: models.CategoryOther, When: old},
		{TID: 2, UID: 1, Delta: 20, Category: models.CategoryOther, When: fresh},
	}))

	l, err := Open(store)
	require.NoError(t, err)

	require.Len(t, l.transactions, 1)
	assert.Equal(t, int64(2), l.transactions[0].TID)
	// The dropped entry's identifier is still never reused.
	assert.Equal(t, int64(2), l.nextTID)
}
