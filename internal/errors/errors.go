package errors

import "errors"

// Cryptographic errors correspond to failures in the hybrid encryption
// pipeline. Each is terminal to the current operation; nothing is
// retried internally.
var (
	// ErrProvisioningFailed indicates key-pair generation or vault
	// directory creation failed. No partial identity is left behind.
	ErrProvisioningFailed = errors.New("failed to provision identity")

	// ErrEncryptionFailed indicates the payload could not be encrypted,
	// typically because the public key is absent or unusable.
	ErrEncryptionFailed = errors.New("failed to encrypt payload")

	// ErrPrivateKeyUnavailable indicates the private key container could
	// not be opened: wrong passphrase, corrupted container, or a key of
	// an unsupported type.
	ErrPrivateKeyUnavailable = errors.New("private key unavailable")

	// ErrMalformedWrapPackage indicates the wrap package does not match
	// the IV-plus-wrapped-key wire layout.
	ErrMalformedWrapPackage = errors.New("malformed wrap package")

	// ErrDecryptionFailed indicates a cipher-level failure: bad block
	// length, bad padding, or a session key that could not be unwrapped.
	ErrDecryptionFailed = errors.New("failed to decrypt payload")
)

// Vault state errors indicate issues with the working directory.
var (
	// ErrVaultNotInitialized indicates no vault directory was found.
	ErrVaultNotInitialized = errors.New("vault has not been initialized")

	// ErrVaultAlreadyInitialized indicates the vault directory already
	// holds a provisioned identity.
	ErrVaultAlreadyInitialized = errors.New("vault has already been provisioned")

	// ErrArtifactNotFound indicates a required vault artifact is missing.
	ErrArtifactNotFound = errors.New("vault artifact not found")
)

// Input errors indicate problems with user-supplied material.
var (
	// ErrNoInputFiles indicates the seal input path matched nothing.
	ErrNoInputFiles = errors.New("no input files found")

	// ErrInvalidPublicKey indicates the recipient public key could not
	// be parsed or is below the minimum key length.
	ErrInvalidPublicKey = errors.New("invalid or unsupported public key")

	// ErrInvalidBundle indicates the bundle archive is malformed or
	// contains unsafe paths.
	ErrInvalidBundle = errors.New("invalid bundle archive")
)
