// Package ledger issues token rewards and computes balances from the
// append-only transaction history.
package ledger

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/blueprint/internal/audit"
	"github.com/mesh-intelligence/blueprint/internal/logging"
	"github.com/mesh-intelligence/blueprint/internal/metrics"
	"github.com/mesh-intelligence/blueprint/internal/notify"
	"github.com/mesh-intelligence/blueprint/pkg/store"
	"github.com/mesh-intelligence/blueprint/pkg/types"
)

// auditEntityType is the audit entity type recorded for issued rewards.
const auditEntityType = "Token"

// Ledger credits the user account from the system account.
type Ledger struct {
	txs     store.Collection[types.TokenTransaction]
	feed    *notify.Feed
	audit   *audit.Log
	now     func() time.Time
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(lg *Ledger) { lg.log = logging.Component(l, "ledger") }
}

// WithMetrics counts issued rewards.
func WithMetrics(m *metrics.Metrics) Option {
	return func(lg *Ledger) { lg.metrics = m }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(lg *Ledger) { lg.now = now }
}

// New returns a ledger storing transactions in s and reporting rewards to
// feed and auditLog.
func New(s types.Store, feed *notify.Feed, auditLog *audit.Log, opts ...Option) *Ledger {
	lg := &Ledger{
		txs:   store.NewCollection[types.TokenTransaction](s, types.EntityTokenTransaction),
		feed:  feed,
		audit: auditLog,
		now:   time.Now,
		log:   logging.Component(nil, "ledger"),
	}
	for _, opt := range opts {
		opt(lg)
	}
	return lg
}

// IssueReward persists a completed transaction crediting the user, then
// emits a success notification and a TOKEN_ISSUED audit entry. Invalid
// input and persistence failures return an error with no side effect.
func (lg *Ledger) IssueReward(amount float64, tokenType types.TokenType, memo string) (types.TokenTransaction, error) {
	if err := types.ValidateAmount(amount); err != nil {
		return types.TokenTransaction{}, err
	}
	if !tokenType.Valid() {
		return types.TokenTransaction{}, fmt.Errorf("%w: %q", types.ErrInvalidTokenType, tokenType)
	}

	tx := types.TokenTransaction{
		ID:         types.NewID(),
		Timestamp:  lg.now().UTC(),
		SenderID:   types.SystemID,
		ReceiverID: types.UserID,
		Amount:     amount,
		TokenType:  tokenType,
		Memo:       memo,
		Status:     types.TxCompleted,
	}
	if err := lg.txs.Set(tx); err != nil {
		lg.log.WithError(err).WithField("token_type", tokenType).Error("reward not persisted")
		return types.TokenTransaction{}, fmt.Errorf("issue reward: %w", err)
	}

	n := FormatAmount(amount)
	lg.metrics.RewardIssued(string(tokenType), amount)
	if lg.feed != nil {
		// Type is a known constant, so Add cannot fail.
		_, _ = lg.feed.Add(fmt.Sprintf("You earned %s %s!", n, tokenType), types.NotificationSuccess, "")
	}
	if lg.audit != nil {
		_, _ = lg.audit.RecordEvent(types.EventTokenIssued, auditEntityType, types.UserID,
			fmt.Sprintf("Issued %s %s for %s", n, tokenType, memo), types.AuditSuccess)
	}
	return tx, nil
}

// GetBalance sums the amounts of tokenType received by the user. It is 0
// when there are no matching transactions.
func (lg *Ledger) GetBalance(tokenType types.TokenType) (float64, error) {
	txs, err := lg.txs.GetAll()
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, tx := range txs {
		if tx.ReceiverID == types.UserID && tx.TokenType == tokenType {
			sum += tx.Amount
		}
	}
	return sum, nil
}

// Transactions returns the user's transactions, newest first.
func (lg *Ledger) Transactions() ([]types.TokenTransaction, error) {
	all, err := lg.txs.GetAll()
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, tx := range all {
		if tx.ReceiverID == types.UserID || tx.SenderID == types.UserID {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// FormatAmount renders an amount in its shortest exact decimal form, so 5
// prints as "5" and 2.5 as "2.5".
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
