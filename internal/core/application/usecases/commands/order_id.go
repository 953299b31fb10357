package commands

import (
	"errors"
)

// ErrOrderIDIsInvalid is returned when a command targets a non-positive order id.
var ErrOrderIDIsInvalid = errors.New("order id must be greater than 0")

func validateOrderID(id int64) error {
	if id <= 0 {
		return ErrOrderIDIsInvalid
	}
	return nil
}
