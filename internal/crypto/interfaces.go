// Package crypto holds the two cryptographic primitives of the vault:
// a reversible cipher for stored secrets and a one-way hasher for master
// passwords. Neither knows anything about storage, users or sessions.
package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

// SecretCipher encrypts and decrypts per-site secrets under one process-wide
// key supplied at construction time.
//
// Implementations are stateless per call and safe for concurrent use.
type SecretCipher interface {
	// Encrypt returns the textual blob of plaintext. Every call draws a
	// fresh IV, so identical inputs produce different blobs.
	Encrypt(plaintext string) (string, error)

	// Decrypt recovers the plaintext of a blob produced by Encrypt.
	// Corrupted, truncated or tampered blobs yield [ErrInvalidCiphertext].
	Decrypt(blob string) (string, error)
}

// PasswordHasher produces and checks self-describing master password hashes.
type PasswordHasher interface {
	// Hash returns a record embedding algorithm, cost, a random salt and the
	// digest. Two calls on the same password return different records.
	Hash(password string) (string, error)

	// Verify reports whether password matches record. Malformed records
	// simply fail verification.
	Verify(password, record string) bool

	// NeedsRehash reports whether record was produced with a cost other
	// than the hasher's current one.
	NeedsRehash(record string) bool
}
