package hook

import (
	"fmt"

	"github.com/glorpus-work/relfetch/pkg/errors"
)

// ErrHookTypeEmpty is returned when a hook type is empty.
var ErrHookTypeEmpty = fmt.Errorf("hook type cannot be empty")

// ErrUnsupportedHookType is returned when an unsupported hook type is used.
func ErrUnsupportedHookType(hookType HookType) error {
	return fmt.Errorf("%w: unsupported hook type: %s", errors.ErrHookLoad, hookType)
}
