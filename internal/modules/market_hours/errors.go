package market_hours

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExchangeNotFound is returned when an exchange identifier is unknown
	ErrExchangeNotFound = errors.New("exchange not found")
	// ErrInvalidTimezone is returned for unknown or empty IANA zone names
	ErrInvalidTimezone = errors.New("invalid timezone")
	// ErrInvalidClockTime is returned for malformed "HH:MM" values
	ErrInvalidClockTime = errors.New("invalid clock time")
	// ErrInvalidSession is returned when a session violates its ordering invariants
	ErrInvalidSession = errors.New("invalid session")
	// ErrInvalidHoliday is returned for malformed holiday entries
	ErrInvalidHoliday = errors.New("invalid holiday")
	// ErrInvalidRule is returned for out-of-range holiday rule parameters
	ErrInvalidRule = errors.New("invalid holiday rule")
)

// ConfigError collects every configuration violation found for one exchange
type ConfigError struct {
	Exchange string
	Errs     []error
}

func (e *ConfigError) Error() string {
	msgs := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("exchange %s: %s", e.Exchange, strings.Join(msgs, "; "))
}

// Unwrap exposes the individual violations to errors.Is / errors.As
func (e *ConfigError) Unwrap() []error {
	return e.Errs
}

func (e *ConfigError) add(err error) {
	e.Errs = append(e.Errs, err)
}

func (e *ConfigError) orNil() error {
	if len(e.Errs) == 0 {
		return nil
	}
	return e
}
