// Package vault manages the working directory for one protection
// session: the passphrase file, the exported key container, the sealed
// payload and wrap package, their Base64 twins, and session metadata.
//
// # Layout
//
//	.sealcrate/
//	  identity.passphrase     passphrase protecting the container (text)
//	  identity.p12            password-protected key-pair container
//	  identity.p12.base64     Base64 twin for text-only transport
//	  identity.pub            recipient-shareable public key (PEM)
//	  payload.sealed          AES-CBC ciphertext of the bundle
//	  payload.wrap            IV ++ wrapped session key
//	  payload.wrap.base64     Base64 twin
//	  vault.toml              session metadata
//	  audit.jsonl             append-only audit trail
//
// Persistence ordering matters: the passphrase is written before the
// container it protects, so a provisioning failure never leaves an
// unopenable key as the only artifact. All writes go through a
// temp-then-rename sequence so partial files never wear final names.
package vault
