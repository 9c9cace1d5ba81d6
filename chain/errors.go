package chain

import (
	"errors"

	"github.com/sirupsen/logrus"
)

var (
	// ErrDimensionMismatch is returned when a generator's dimension differs
	// from the fixed dimension of the chain it is added to.
	ErrDimensionMismatch = errors.New("chain: dimension mismatch")

	// ErrPhysicalGroupNotFound is returned when a physical group number is
	// absent from every dimension of the model.
	ErrPhysicalGroupNotFound = errors.New("chain: physical group does not exist")
)

var log = logrus.New()

// SetLogger replaces the logger used to report recoverable conditions.
// A nil logger restores a default one.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.New()
	}
	log = l
}
