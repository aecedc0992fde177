package events

import (
	"github.com/go-faster/errors"
)

// ErrPublication matches every PublicationError via errors.Is.
var ErrPublication = errors.New("event publication failed")

// PublicationError reports a transport-level failure while publishing an event.
type PublicationError struct {
	EventName string
	Topic     string
	Err       error
}

func (e *PublicationError) Error() string {
	msg := "publish " + e.EventName
	if e.Topic != "" {
		msg += " to " + e.Topic
	}
	return msg + ": " + e.Err.Error()
}

func (e *PublicationError) Unwrap() []error {
	return []error{ErrPublication, e.Err}
}
