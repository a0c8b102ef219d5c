package driver

import "errors"

// Sentinel errors for the dispositions in spec §7's error-handling table.
// Where one is returned with added context it is wrapped via fmt.Errorf's
// %w, so callers can still errors.Is against the sentinel.
// ErrCompileMiss, ErrCacheWrite and ErrMalformedGrouping are not returned
// by any code path.
var (
	ErrConfigMissing     = errors.New("config file absent or malformed")
	ErrMarkupRead        = errors.New("markup file not readable")
	ErrCompileMiss       = errors.New("class resolves to no rule")
	ErrOutputWrite       = errors.New("artifact write failed")
	ErrCacheWrite        = errors.New("cache persist failed")
	ErrArtifactParse     = errors.New("startup artifact scan could not find layer bounds")
	ErrMalformedGrouping = errors.New("unbalanced parens in grouping attribute")
)
