package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/minyeol/songquiz/internal/logger"
	"github.com/minyeol/songquiz/internal/models"
)

const (
	accountsFile     = "accounts.json"
	transactionsFile = "transactions.json"
)

// Store persists ledger collections as JSON files, one file per collection.
// Writes go through a temp file and rename so a crashed save never leaves a
// half-written collection behind.
type Store struct {
	dir string
	log *logger.Logger
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &Store{
		dir: dir,
		log: logger.Default().WithPrefix("ledger-store"),
	}, nil
}

// LoadAccounts reads the account collection. A missing file yields an empty
// ledger, not an error.
func (s *Store) LoadAccounts() ([]models.Account, error) {
	var accounts []models.Account
	if err := s.loadJSON(accountsFile, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// SaveAccounts writes the account collection.
func (s *Store) SaveAccounts(accounts []models.Account) error {
	return s.saveJSON(accountsFile, accounts)
}

// LoadTransactions reads the transaction log, ordered by tid ascending.
// A missing file yields an empty log.
func (s *Store) LoadTransactions() ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.loadJSON(transactionsFile, &transactions); err != nil {
		return nil, err
	}
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].TID < transactions[j].TID
	})
	return transactions, nil
}

// SaveTransactions writes the transaction log.
func (s *Store) SaveTransactions(transactions []models.Transaction) error {
	return s.saveJSON(transactionsFile, transactions)
}

func (s *Store) loadJSON(name string, v any) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Debug("%s not found, starting empty", name)
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (s *Store) saveJSON(name string, v any) error {
	path := filepath.Join(s.dir, name)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	s.log.Debug("saved %s (%d bytes)", name, len(data))
	return nil
}
