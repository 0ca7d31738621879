package domain

import "errors"

// ErrEmptyHistory is returned when an aggregation needs at least one sale.
var ErrEmptyHistory = errors.New("empty sales history")
