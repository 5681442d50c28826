package models

import (
	"time"

	"github.com/rs/zerolog"
)

// Credential is a stored per-site secret owned by a single [User].
//
// SecretBlob is the encrypted-at-rest form of the secret and is opaque
// outside the secret cipher. SiteLabel is not unique: one user may keep
// several secrets under the same label.
type Credential struct {
	CredentialID int64     `json:"credential_id"`
	OwnerID      int64     `json:"owner_id"`
	SiteLabel    string    `json:"site_label"`
	SecretBlob   string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Credential model.
func (c Credential) TableName() string {
	return "credentials"
}

// MarshalZerologObject logs the credential metadata only; the blob stays out.
func (c Credential) MarshalZerologObject(e *zerolog.Event) {
	e.Int64("credential_id", c.CredentialID).
		Int64("owner_id", c.OwnerID).
		Str("site_label", c.SiteLabel)
}

// Secret is a decrypted view of a [Credential] returned to its owner.
//
// When the stored blob cannot be decrypted, Plaintext is empty and Err holds
// the reason; other entries of the same listing are unaffected.
type Secret struct {
	CredentialID int64  `json:"credential_id"`
	SiteLabel    string `json:"site_label"`
	Plaintext    string `json:"-"`
	Err          error  `json:"-"`
}

// OK reports whether the secret was decrypted successfully.
func (s Secret) OK() bool {
	return s.Err == nil
}
