package types

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

func roundTrip[T any](t *testing.T, in T) (T, string) {
	t.Helper()
	data, err := json.Marshal(in)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(data, &out))
	return out, string(data)
}

func TestTokenTransactionRoundTrip(t *testing.T) {
	tx := TokenTransaction{
		ID:         "tx1",
		Timestamp:  fixedTime,
		SenderID:   SystemID,
		ReceiverID: UserID,
		Amount:     5,
		TokenType:  TokenCareerCoin,
		Status:     TxCompleted,
	}
	got, raw := roundTrip(t, tx)
	assert.Equal(t, tx, got)
	assert.NotContains(t, raw, `"memo"`, "absent memo must stay absent")
	assert.Contains(t, raw, `"tokenType":"CareerCoin"`)
	assert.Contains(t, raw, `"status":"COMPLETED"`)

	tx.Memo = "Resume Analysis Completion"
	got, raw = roundTrip(t, tx)
	assert.Equal(t, tx, got)
	assert.Contains(t, raw, `"memo":"Resume Analysis Completion"`)
}

func TestAuditLogEntryRoundTrip(t *testing.T) {
	entry := AuditLogEntry{
		ID:          "a1",
		Timestamp:   fixedTime,
		ActorID:     UserID,
		EventType:   EventTokenIssued,
		EntityType:  "Token",
		EntityID:    UserID,
		PayloadHash: "0123456789abcdef",
		Signature:   "SIG_x",
		Status:      AuditFailure,
		Message:     "Issued 5 CareerCoin for test",
	}
	got, raw := roundTrip(t, entry)
	assert.Equal(t, entry, got)
	assert.Contains(t, raw, `"eventType":"TOKEN_ISSUED"`)
	assert.Contains(t, raw, `"status":"FAILURE"`)
}

func TestJobApplicationRoundTripNullFollowUp(t *testing.T) {
	app := JobApplication{
		ID:             "app1",
		JobTitle:       "Staff Engineer",
		Company:        "Acme",
		Status:         AppOfferReceived,
		InterviewDates: []string{"2026-03-04"},
		CreatedAt:      fixedTime,
		LastUpdated:    fixedTime,
	}
	got, raw := roundTrip(t, app)
	assert.Equal(t, app, got)
	assert.Contains(t, raw, `"followUpDate":null`)
	assert.Contains(t, raw, `"status":"Offer Received"`)
	assert.NotContains(t, raw, `"coverLetterUsed"`)

	followUp := "2026-03-10"
	app.FollowUpDate = &followUp
	got, _ = roundTrip(t, app)
	require.NotNil(t, got.FollowUpDate)
	assert.Equal(t, followUp, *got.FollowUpDate)
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, TokenCareerCoin.Valid())
	assert.False(t, TokenType("Gold").Valid())
	assert.True(t, NotificationWarning.Valid())
	assert.False(t, NotificationType("").Valid())
	assert.True(t, EventSessionScheduled.Valid())
	assert.False(t, AuditEventType("GOAL_ARCHIVED").Valid())
	assert.True(t, SeverityMajor.Valid())
	assert.False(t, Severity("Critical").Valid())
	assert.True(t, AppInterviewing.Pending())
	assert.False(t, AppRejected.Pending())
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(0.5))
	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		assert.ErrorIs(t, ValidateAmount(bad), ErrInvalidAmount)
	}
}
