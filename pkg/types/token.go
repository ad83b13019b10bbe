package types

import (
	"math"
	"time"
)

// TokenType names a reward token.
type TokenType string

// Token types.
const (
	TokenCareerCoin TokenType = "CareerCoin"
	TokenSkillPoint TokenType = "SkillPoint"
)

// Valid reports whether t is a known token type.
func (t TokenType) Valid() bool {
	return t == TokenCareerCoin || t == TokenSkillPoint
}

// TransactionStatus is the settlement state of a token transaction.
type TransactionStatus string

// Transaction statuses.
const (
	TxCompleted TransactionStatus = "COMPLETED"
	TxPending   TransactionStatus = "PENDING"
	TxFailed    TransactionStatus = "FAILED"
)

// TokenTransaction is an append-only ledger entry.
type TokenTransaction struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	SenderID   string            `json:"senderId"`
	ReceiverID string            `json:"receiverId"`
	Amount     float64           `json:"amount"`
	TokenType  TokenType         `json:"tokenType"`
	Memo       string            `json:"memo,omitempty"`
	Status     TransactionStatus `json:"status"`
}

// RecordID implements Record.
func (t TokenTransaction) RecordID() string { return t.ID }

// ValidateAmount rejects zero, negative and non-finite amounts.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
