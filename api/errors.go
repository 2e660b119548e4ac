// File: api/errors.go
// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error values shared by corehop packages.

package api

import "fmt"

var (
	ErrNotSupported    = fmt.Errorf("operation not supported")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
