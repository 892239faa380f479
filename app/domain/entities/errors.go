package entities

import "errors"

// ErrStatsNotFound is returned when no statistics exist for a route prefix.
var ErrStatsNotFound = errors.New("route stats not found")
