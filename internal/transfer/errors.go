package transfer

import "errors"

// Rejection is a transfer refused before anything was mutated or sent.
type Rejection struct {
	reason string
}

func (r *Rejection) Error() string {
	return r.reason
}

var (
	ErrSlotPending     = &Rejection{"slot is waiting on the host"}
	ErrUnknownItem     = &Rejection{"item is not in the catalog"}
	ErrShopSell        = &Rejection{"items cannot be sold to a shop"}
	ErrDestinationFull = &Rejection{"no room in destination"}
	ErrNoSecondary     = &Rejection{"no secondary inventory is open"}
	ErrEmptySlot       = &Rejection{"slot is empty"}
	ErrNoContainer     = &Rejection{"container is not open"}
	ErrBadSlot         = &Rejection{"slot is outside the container"}
)

// IsRejection reports whether err is a resolution rejection rather than a
// system failure.
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}
