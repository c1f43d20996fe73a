package payment

import (
	"errors"
	"fmt"
)

// ErrAdhocDisabled reports that immediate sessions are switched off in
// configuration.
var ErrAdhocDisabled = errors.New("adhoc sessions are currently disabled")

// ErrSlotUnavailable reports that the immediate slot (now plus preparation
// time) is already busy.
var ErrSlotUnavailable = errors.New("requested time slot (now + preparation) is not available")

// ErrSignature reports a webhook whose signature did not verify. The caller
// must reject the delivery without processing it.
var ErrSignature = errors.New("webhook signature verification failed")

// ProviderAPIError reports an error response from a payment provider's API.
type ProviderAPIError struct {
	Provider string
	Status   string
	Message  string
}

func (e *ProviderAPIError) Error() string {
	return fmt.Sprintf("%s API error: status=%s message=%q", e.Provider, e.Status, e.Message)
}
