package slack

import (
	"errors"
	"fmt"
)

var (
	ErrConfig            = errors.New("config_error")
	ErrDelivery          = errors.New("delivery_error")
	ErrMissingWebhookURL = errors.New("webhook url is not set")
	ErrInvalidWebhookURL = errors.New("webhook url is invalid")
	ErrUnknownLevel      = errors.New("unknown message level")
)

// ConfigError aborts an operation before anything is sent.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConfig}
	}
	return []error{ErrConfig, e.Err}
}

// DeliveryError reports a transport failure or a non-2xx webhook response.
// StatusCode is zero when no response was received.
type DeliveryError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode != 0 {
		if e.Body != "" {
			return fmt.Sprintf("deliver notification: status %d: %s", e.StatusCode, e.Body)
		}
		return fmt.Sprintf("deliver notification: status %d", e.StatusCode)
	}
	return fmt.Sprintf("deliver notification: %v", e.Err)
}

func (e *DeliveryError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDelivery}
	}
	return []error{ErrDelivery, e.Err}
}

// PanicError carries a value recovered from a panicking block together with
// the goroutine stack at the point of recovery.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
