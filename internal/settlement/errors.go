package settlement

import (
	"errors"
	"fmt"

	"github.com/rewired-gh/bolita/internal/dates"
)

// ErrMissingWinningNumber blocks settlement of a wager submission that has
// no winning number. The operator supplies the number and resubmits;
// TOTAL-style direct submissions are exempt.
var ErrMissingWinningNumber = errors.New("winning number required to settle submission")

// ConsistencyError rejects a commit whose winning number conflicts with a
// sale already committed for the same date and shift by any seller. The
// message names the required value so the operator can correct the entry.
type ConsistencyError struct {
	Date     string
	Shift    dates.Shift
	Expected int
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("winning number for %s %s is already fixed at %d", e.Date, e.Shift, e.Expected)
}
