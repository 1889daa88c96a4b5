// internal/match/errors.go
package match

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrConflict is matched by every *ConflictError.
	ErrConflict = errors.New("match state conflict")
	// ErrNotSeated means the user holds no seat in the match.
	ErrNotSeated = errors.New("user is not seated in this match")
	// ErrNotExpired means a timeout was requested before the deadline lapsed.
	ErrNotExpired = errors.New("turn deadline has not lapsed")
)

// ConflictError reports that the client's view of the match is out of date.
// Stale is false when the submitted version was already behind, and true when
// another request won the conditional write. Either way the client should
// refetch and retry.
type ConflictError struct {
	MatchID  uuid.UUID
	Expected int64
	Actual   int64
	Stale    bool
}

func (e *ConflictError) Error() string {
	if e.Stale {
		return fmt.Sprintf("match %s: version %d was replaced during the update", e.MatchID, e.Expected)
	}
	return fmt.Sprintf("match %s: submitted version %d, current is %d", e.MatchID, e.Expected, e.Actual)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
