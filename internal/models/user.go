// internal/models/user.go
package models

import "github.com/google/uuid"

// User is a guest identity. There are no accounts; a user exists for as long
// as its token is valid.
type User struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	IsEphemeral bool      `json:"is_ephemeral"`
}
