package models

// Track is an immutable catalogue entry for one song. Tracks are produced by the
// offline crawl pipeline and loaded from songs.json; the quiz engine never
// mutates them.
type Track struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Artist        string `json:"artist"`
	AudioSourceID string `json:"audio_source_id"`
	AudioTitle    string `json:"audio_title"`
	AudioDuration int    `json:"audio_duration_seconds"`
}

// AccountID identifies a participant on the reward ledger.
type AccountID int64

// Account holds a participant's lifetime quiz points and spendable coin balance.
// Coin never goes negative; mutations that would drive it below zero are
// rejected by the ledger.
type Account struct {
	ID    AccountID `json:"id"`
	Point int       `json:"point"`
	Coin  int       `json:"coin"`
}

// TransactionCategory classifies a ledger transaction.
type TransactionCategory string

const (
	CategoryQuizReward TransactionCategory = "quiz-reward"
	CategorySongSkip   TransactionCategory = "song-skip-purchase"
	CategoryOther      TransactionCategory = "other"
)

// Transaction is an immutable ledger record. Records are append-only and pruned
// by age; they are never mutated after creation.
type Transaction struct {
	TID      int64               `json:"tid"`
	UID      AccountID           `json:"uid"`
	Delta    int                 `json:"delta"`
	Category TransactionCategory `json:"category"`
	IsBuy    bool                `json:"is_buy"`
	When     Timestamp           `json:"when"`
}

// RankedAccount is an account paired with its tie-aware leaderboard rank.
type RankedAccount struct {
	Account
	Rank int `json:"rank"`
}
