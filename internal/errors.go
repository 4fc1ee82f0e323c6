package internal

import "errors"

var (
	// ErrDecode is returned when a demo file is malformed or unsupported
	ErrDecode = errors.New("unable to decode demo")

	// ErrSurfaceNotFound is returned when a drawing surface (or the container
	// it is laid out in) is not mounted
	ErrSurfaceNotFound = errors.New("surface not found")

	// ErrEmptyDropSelection is reported when a drop does not carry exactly one
	// usable file
	ErrEmptyDropSelection = errors.New("no file dropped")
)
