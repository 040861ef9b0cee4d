package uri

import "github.com/marrow/uri/internal/errorutil"

type Error = errorutil.Error

const (
	// ErrUnknownComponent is returned for a component name or [Part] the URI does not have.
	ErrUnknownComponent Error = "unknown URI component"
	// ErrReadOnlyComponent is returned on assignment to a compound view.
	ErrReadOnlyComponent Error = "read-only URI component"
	// ErrInvalidPathAssignment is returned when a rootless path is assigned to a URI with a host.
	ErrInvalidPathAssignment Error = "rootless path assigned to URI with host"
	// ErrInvalidArgument is returned for values a component can not be built from.
	ErrInvalidArgument = errorutil.ErrInvalidArgument
)
