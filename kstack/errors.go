package kstack

import "errors"

// ErrStackOverflow is returned by Alloca when the requested allocation
// would drive the stack pointer below zero (spec.md §4.9).
var ErrStackOverflow = errors.New("kstack: stack overflow")

// ErrInvalidMarker is returned by PopFrame when marker does not lie in
// [0, size].
var ErrInvalidMarker = errors.New("kstack: marker out of range")
