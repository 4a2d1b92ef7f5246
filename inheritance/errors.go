package inheritance

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrUnsupportedChannel              = errors.New("unsupported inheritance channel")
	ErrUnsupportedTranslationExemption = errors.New("inheritance property 'translation':false is not supported")
)

// DecodeError describes a rejected extension block. Err is one of the
// package sentinels, so callers can match it with errors.Is.
type DecodeError struct {
	Node     string
	Channels []string
	Err      error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	if e.Node != "" {
		fmt.Fprintf(&b, "node %q: ", e.Node)
	}
	b.WriteString(e.Err.Error())
	if len(e.Channels) != 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(e.Channels, ","))
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// WithNode returns err annotated with the node name when it is a *DecodeError.
func WithNode(err error, node string) error {
	var de *DecodeError
	if errors.As(err, &de) {
		annotated := *de
		annotated.Node = node
		return &annotated
	}
	return errors.Wrapf(err, "node %q", node)
}
