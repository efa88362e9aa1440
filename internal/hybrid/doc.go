// Package hybrid implements the hybrid encryption core: a one-time
// AES-256 session key encrypts the payload in CBC mode, and the session
// key is wrapped with the recipient's RSA public key using OAEP.
//
// # Wire Contract
//
// Every encryption produces two byte sequences:
//
//   - payload: AES-256-CBC ciphertext of the input, PKCS#7 padded
//   - wrap package: IV (16 bytes) ++ RSA-OAEP(SHA-256) wrapped key
//
// The first 16 bytes of the wrap package are always the IV; the
// remainder is the wrapped session key, whose length equals the RSA
// modulus size. This layout must not change without a version marker.
//
// # Security Properties
//
// The scheme provides confidentiality only. CBC mode carries no
// authentication tag, so tampering is not reliably detected: corrupted
// ciphertext usually fails padding validation but may instead decrypt
// to garbage. OAEP is mandatory for the key wrap; PKCS#1 v1.5 padding
// is never used.
//
// Session keys exist only for the duration of a call. Both sides zero
// key material before returning.
package hybrid
