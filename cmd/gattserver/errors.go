package main

import "errors"

// Command-level errors.
var (
	// ErrNoBearer indicates a demo operation targeted a transport index with
	// no live bearer attached.
	ErrNoBearer = errors.New("no bearer for transport")
)
