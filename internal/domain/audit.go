package domain

import "time"

// AuditEntry is one line of the append-only action log. Writing it is
// best effort; a failed audit write never fails the operation it
// describes.
type AuditEntry struct {
	ID     int64     `json:"id" db:"id"`
	Who    string    `json:"who" db:"who"`
	Action string    `json:"action" db:"action"`
	Target string    `json:"target" db:"target"`
	TS     time.Time `json:"ts" db:"ts"`
}
