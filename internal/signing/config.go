package signing

import "fmt"

// Property keys read from key.properties.
const (
	KeyAlias      = "keyAlias"
	KeyPassword   = "keyPassword"
	StoreFile     = "storeFile"
	StorePassword = "storePassword"
)

// RequiredKeys is the canonical key order used when validating and writing.
var RequiredKeys = []string{KeyAlias, KeyPassword, StoreFile, StorePassword}

const redacted = "******"

// SigningConfig holds validated release-signing credentials. It has no
// mutators; the zero value is not a valid config.
type SigningConfig struct {
	keyAlias      string
	keyPassword   string
	storeFile     string
	storePassword string
}

// KeyAlias returns the alias of the signing key inside the keystore.
func (c SigningConfig) KeyAlias() string { return c.keyAlias }

// KeyPassword returns the password protecting the signing key.
func (c SigningConfig) KeyPassword() string { return c.keyPassword }

// StoreFile returns the absolute path of the keystore.
func (c SigningConfig) StoreFile() string { return c.storeFile }

// StorePassword returns the password protecting the keystore.
func (c SigningConfig) StorePassword() string { return c.storePassword }

// IsZero reports whether c was never populated by Resolve.
func (c SigningConfig) IsZero() bool {
	return c == SigningConfig{}
}

// String renders the config with both passwords redacted.
func (c SigningConfig) String() string {
	return fmt.Sprintf("SigningConfig{keyAlias: %q, keyPassword: %s, storeFile: %q, storePassword: %s}",
		c.keyAlias, redacted, c.storeFile, redacted)
}

// GoString keeps %#v from printing the passwords.
func (c SigningConfig) GoString() string {
	return c.String()
}

// Credentials is the raw, unvalidated form of the four keys. It is what
// gets written to key.properties and what Resolve reads back.
type Credentials struct {
	KeyAlias      string
	KeyPassword   string
	StoreFile     string
	StorePassword string
}

func (c Credentials) values() map[string]string {
	return map[string]string{
		KeyAlias:      c.KeyAlias,
		KeyPassword:   c.KeyPassword,
		StoreFile:     c.StoreFile,
		StorePassword: c.StorePassword,
	}
}

// Blank returns the keys whose values are empty or whitespace only, in
// canonical order.
func (c Credentials) Blank() []string {
	return blankKeys(c.values())
}
