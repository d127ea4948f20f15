package keys

import "errors"

// Terminal keystore errors. None of these are retried: a bad password or a
// pre-existing file cannot succeed on a second attempt.
var (
	// ErrAlreadyExists is returned when creating a key whose file (or
	// companion public file) already exists.
	ErrAlreadyExists = errors.New("key already exists")

	// ErrNotFound is returned when a key file or its parent coldkey
	// directory is absent.
	ErrNotFound = errors.New("key not found")

	// ErrInvalidKey is returned when de-obfuscated bytes do not form a
	// structurally valid keypair. The codec cannot tell a wrong password
	// from a corrupted file, so both surface as ErrInvalidKey.
	ErrInvalidKey = errors.New("invalid key (wrong password or corrupted file)")
)
