package models

import "time"

// PaymentStatus is the gateway-reported outcome of a payment attempt.
// Payment capture itself happens elsewhere; only the status is consumed here.
type PaymentStatus string

// Payment statuses the engine cares about. Anything other than SUCCESS is
// treated as not paid.
const (
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// Payment links a gateway payment record to a session. Upstream cardinality
// is inconsistent (zero, one, or several rows per session), so consumers
// must not assume exactly one.
type Payment struct {
	ID        string        `db:"id" json:"id"`
	SessionID string        `db:"session_id" json:"session_id"`
	Status    PaymentStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}
