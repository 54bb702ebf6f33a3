package models

import "time"

// User is a back-office user (deliverer or admin). Authentication lives at
// the edge; this service only needs the directory for deliverer names.
type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
