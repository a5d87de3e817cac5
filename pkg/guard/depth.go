package guard

import (
	"strconv"
	"strings"

	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/arthur-debert/aka/pkg/logging"
	"github.com/arthur-debert/aka/pkg/types"
)

// EnvDepth carries the alias chain depth to child processes.
const EnvDepth = "AKA_DEPTH"

// Depth is the position of this invocation in an alias chain.
type Depth struct {
	Current int
	Max     int
}

// Enter reads the inherited depth through lookup and returns this
// invocation's depth. An inherited depth above max is fatal.
func Enter(lookup func(string) (string, bool), max int) (Depth, error) {
	inherited := 0
	if raw, ok := lookup(EnvDepth); ok {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 0 {
			logger := logging.GetLogger("guard")
			logger.Warn().Str("value", raw).Msg("Ignoring malformed depth counter")
		} else {
			inherited = n
		}
	}

	if inherited > max {
		return Depth{}, errors.Newf(errors.ErrDepthExceeded,
			"alias recursion depth %d exceeds the maximum of %d", inherited, max).
			WithDetail("depth", inherited).
			WithDetail("max", max)
	}
	return Depth{Current: inherited + 1, Max: max}, nil
}

// EnvVar is the variable to place in the child's environment block.
func (d Depth) EnvVar() types.EnvVar {
	return types.EnvVar{Name: EnvDepth, Value: strconv.Itoa(d.Current)}
}
