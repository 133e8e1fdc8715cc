// model/token.go
package model

import "time"

// AuthToken is a persisted opaque bearer credential. At most one row exists
// per user: login reuses the stored key, logout and password changes delete
// every row the user owns.
type AuthToken struct {
	Key       string    `json:"key"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
