package payment

import "time"

// Statuses. Pending is set locally; later values are whatever the gateway
// reports through the callback.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Payment records a transaction initiated against the external gateway. The
// application stores only the gateway's transaction id and the status string
// it reports; the gateway protocol itself is out of scope.
type Payment struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"user_id"`
	Amount               float64   `json:"amount"`
	Currency             string    `json:"currency"`
	GatewayTransactionID string    `json:"transaction_id,omitempty"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
