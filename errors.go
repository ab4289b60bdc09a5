package main

import "errors"

// Failure kinds surfaced by a sync pass. Everything is wrapped with %w so
// callers can classify with errors.Is without parsing messages.
var (
	// ErrConfig means a required setting is missing or invalid. The pass
	// never starts.
	ErrConfig = errors.New("configuration error")

	// ErrConnection means the storage client could not be constructed.
	// The pass aborts before any listing or upload.
	ErrConnection = errors.New("connection error")

	// ErrStorage means a list, put, or delete against the bucket failed.
	// The current pass aborts immediately. No retries.
	ErrStorage = errors.New("storage error")

	// ErrRead means a local file could not be read while hashing or
	// preparing an upload body.
	ErrRead = errors.New("read error")

	// ErrGuessExhausted means the multipart chunk-size scan found no
	// chunk size reproducing the remote tag. The file cannot be verified
	// and must be re-uploaded; this is not fatal to the pass.
	ErrGuessExhausted = errors.New("chunk size guess exhausted")
)
