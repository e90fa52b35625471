package entity

// PendingNotification marks that a user's followers asked for a location
// refresh; the sweep later decides whether a visible push is warranted.
// Timestamp is unix milliseconds at enqueue time.
type PendingNotification struct {
	UserID    string `json:"userId"`
	Timestamp int64  `json:"timestamp"`
}

// ResetCode maps an emailed opaque reset id to the account it recovers.
// Stored with a TTL and deleted on first use.
type ResetCode struct {
	UserID string `json:"userId"`
	Code   string `json:"resetCode"`
}
