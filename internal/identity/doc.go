// Package identity provisions the asymmetric side of the hybrid scheme.
//
// An identity is an RSA key pair bound to a subject label through a
// self-signed certificate. The private key is exported into a
// password-protected PKCS#12 container under a freshly generated
// 128-character passphrase; the passphrase is the only way back to the
// key and must be persisted before the container is.
//
// # Import Lifetime
//
// ImportContainer returns a scoped PrivateIdentity handle instead of
// loading the key into any OS key store. The key exists only in process
// memory and is zeroed by Close:
//
//	id, err := identity.ImportContainer(container, passphrase)
//	if err != nil { ... }
//	defer id.Close()
//
// # Recipient Keys
//
// ParsePublicKey accepts PKIX PEM, PKCS#1 PEM, PEM certificates, and
// OpenSSH authorized_keys lines, so a recipient can hand over whatever
// key format they already have.
package identity
