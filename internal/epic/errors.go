package epic

import (
	"errors"
	"fmt"
)

// ErrEmptyExchangeCode is returned when the exchange endpoint answers
// successfully but without a code.
var ErrEmptyExchangeCode = errors.New("exchange endpoint returned no code")

// ProviderError is a non-success response from the account service,
// carrying its machine-readable error code and human message.
type ProviderError struct {
	Status  int
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("provider returned status %d", e.Status)
	}
	return fmt.Sprintf("'%s' (%s)", e.Message, e.Code)
}

// IsProviderError reports whether err is a rejection by the provider,
// as opposed to a transport failure.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
