package entity

import "time"

// CrashReport is a client-submitted crash dump, persisted append-only.
type CrashReport struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	OSType     string    `json:"os_type"` // android, ios, wp
	Title      string    `json:"title"`
	Report     string    `json:"report"`
	AppVersion string    `json:"app_version"`
	CreatedAt  time.Time `json:"created_at"`
}
