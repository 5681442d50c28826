package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/crypto/hkdf"
)

const (
	// blockSize is both the AES block size and the IV length.
	blockSize = aes.BlockSize

	// tagSize is the length of the HMAC-SHA256 tag appended to the ciphertext.
	tagSize = sha256.Size

	// minBlobSize is IV + one ciphertext block + tag.
	minBlobSize = blockSize + blockSize + tagSize
)

// macKeyInfo domain-separates the MAC key from the encryption key.
var macKeyInfo = []byte("go-pass-vault secret blob hmac-sha256")

// blobEncoding rejects non-canonical base64 so that every textual change of a
// blob is a change of its bytes.
var blobEncoding = base64.StdEncoding.Strict()

// aesCBCCipher is the private implementation of [SecretCipher].
//
// Blob layout before base64: iv (16) ‖ AES-256-CBC(PKCS#7(plaintext)) ‖
// HMAC-SHA256(macKey, iv ‖ ciphertext) (32).
type aesCBCCipher struct {
	block  cipher.Block
	macKey []byte
	random io.Reader
}

// NewSecretCipher constructs a [SecretCipher] bound to key. The block cipher
// and the derived MAC key are computed once; the returned value is read-only
// afterwards and can be shared between goroutines.
func NewSecretCipher(key Key) (SecretCipher, error) {
	return newAESCBCCipher(key, rand.Reader)
}

func newAESCBCCipher(key Key, random io.Reader) (*aesCBCCipher, error) {
	if key.IsZero() {
		return nil, ErrMissingKey
	}

	block, err := aes.NewCipher(key.b[:])
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	macKey := make([]byte, sha256.Size)
	if _, err = io.ReadFull(hkdf.New(sha256.New, key.b[:], nil, macKeyInfo), macKey); err != nil {
		return nil, fmt.Errorf("derive mac key: %w", err)
	}

	return &aesCBCCipher{
		block:  block,
		macKey: macKey,
		random: random,
	}, nil
}

// Encrypt implements [SecretCipher].
func (c *aesCBCCipher) Encrypt(plaintext string) (string, error) {
	padded := pad([]byte(plaintext))

	blob := make([]byte, blockSize+len(padded), blockSize+len(padded)+tagSize)
	iv := blob[:blockSize]
	if _, err := io.ReadFull(c.random, iv); err != nil {
		return "", fmt.Errorf("generate iv: %w", err)
	}

	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(blob[blockSize:], padded)
	blob = append(blob, c.tag(blob)...)

	return blobEncoding.EncodeToString(blob), nil
}

// Decrypt implements [SecretCipher]. The tag is checked before the padding is
// looked at, so a forged blob never reaches the padding check.
func (c *aesCBCCipher) Decrypt(encoded string) (string, error) {
	blob, err := blobEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: not base64", ErrInvalidCiphertext)
	}

	if len(blob) < minBlobSize || (len(blob)-blockSize)%blockSize != 0 {
		return "", fmt.Errorf("%w: unexpected length %d", ErrInvalidCiphertext, len(blob))
	}

	body, tag := blob[:len(blob)-tagSize], blob[len(blob)-tagSize:]
	if !hmac.Equal(tag, c.tag(body)) {
		return "", fmt.Errorf("%w: integrity check failed", ErrInvalidCiphertext)
	}

	iv, ciphertext := body[:blockSize], body[blockSize:]
	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(plain, ciphertext)

	plain, err = unpad(plain)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidCiphertext, err)
	}

	if !utf8.Valid(plain) {
		return "", fmt.Errorf("%w: plaintext is not valid utf-8", ErrInvalidCiphertext)
	}

	return string(plain), nil
}

func (c *aesCBCCipher) tag(data []byte) []byte {
	mac := hmac.New(sha256.New, c.macKey)
	mac.Write(data)
	return mac.Sum(nil)
}

// pad appends PKCS#7 padding: n bytes of value n, 1 <= n <= blockSize.
func pad(data []byte) []byte {
	n := blockSize - len(data)%blockSize

	out := make([]byte, len(data)+n)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(n)
	}

	return out
}

// unpad strips PKCS#7 padding after checking its length and every padding byte.
func unpad(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errInvalidPadding
	}

	n := int(data[len(data)-1])
	if n < 1 || n > blockSize {
		return nil, errInvalidPadding
	}

	var diff byte
	for _, b := range data[len(data)-n:] {
		diff |= b ^ byte(n)
	}
	if diff != 0 {
		return nil, errInvalidPadding
	}

	return data[:len(data)-n], nil
}
