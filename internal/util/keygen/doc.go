// Package keygen generates ed25519 key pairs for SSH authentication.
//
// Keys are produced in PEM-encoded OpenSSH format (private) and
// authorized_keys format (public), suitable for uploading to Hetzner
// Cloud and for dialing nodes during cluster bootstrap.
package keygen
