package process

import (
	"errors"

	"github.com/google/uuid"
)

var errNotHeston = errors.New("process: vol model is not Heston")

// Session tags a pricing run with a stable diagnostic identifier,
// independent of any process's version fingerprint, so log lines across
// a bump-and-reprice Greek sweep can be correlated post hoc.
type Session struct {
	id uuid.UUID
}

// NewSession mints a fresh diagnostic session id.
func NewSession() Session { return Session{id: uuid.New()} }

// String returns the session id's canonical text form.
func (s Session) String() string { return s.id.String() }
