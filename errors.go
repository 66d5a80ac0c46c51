package akaze

import "errors"

// ErrInvalidConfig marks a fatal configuration error raised before any
// pipeline work starts.
var ErrInvalidConfig = errors.New("akaze: invalid configuration")
