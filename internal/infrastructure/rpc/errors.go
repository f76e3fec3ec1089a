package rpc

import "errors"

// ErrInvalidAddress is returned when a service address is empty.
var ErrInvalidAddress = errors.New("rpc: address cannot be empty")
