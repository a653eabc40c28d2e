// Package signing resolves the release signing configuration of an Android
// build from a key.properties file.
//
// Resolution fails fast with one of three kinds (MissingConfig,
// IncompleteConfig, MissingKeystore). Every failure is fatal to the build
// invocation; there is no default or partial config to fall back to.
package signing

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Resolver turns a properties file path into a SigningConfig.
type Resolver struct {
	// BaseDir anchors a relative properties path. Empty means the process
	// working directory. The keystore path is always resolved against the
	// properties file's own directory, never against BaseDir.
	BaseDir string
}

// NewResolver returns a Resolver anchored at baseDir.
func NewResolver(baseDir string) *Resolver {
	return &Resolver{BaseDir: baseDir}
}

// Resolve is shorthand for a zero Resolver.
func Resolve(propertiesPath string) (SigningConfig, error) {
	return (&Resolver{}).Resolve(propertiesPath)
}

// Resolve loads propertiesPath, validates the four signing keys and resolves
// the keystore file.
func (r *Resolver) Resolve(propertiesPath string) (SigningConfig, error) {
	path, err := r.absolute(propertiesPath)
	if err != nil {
		return SigningConfig{}, err
	}

	values, err := readProperties(path)
	if err != nil {
		return SigningConfig{}, err
	}

	if blank := blankKeys(values); len(blank) > 0 {
		return SigningConfig{}, &Error{kind: KindIncompleteConfig, path: path, missing: blank}
	}

	storeFilePath := values[StoreFile]
	keystore := storeFilePath
	if !filepath.IsAbs(keystore) {
		keystore = filepath.Join(filepath.Dir(path), keystore)
	}
	if !exists(keystore) {
		return SigningConfig{}, &Error{kind: KindMissingKeystore, path: storeFilePath}
	}

	return SigningConfig{
		keyAlias:      values[KeyAlias],
		keyPassword:   values[KeyPassword],
		storeFile:     keystore,
		storePassword: values[StorePassword],
	}, nil
}

func (r *Resolver) absolute(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	base := r.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("signing: working directory: %w", err)
		}
		base = wd
	} else if !filepath.IsAbs(base) {
		abs, err := filepath.Abs(base)
		if err != nil {
			return "", fmt.Errorf("signing: resolve base dir: %w", err)
		}
		base = abs
	}
	return filepath.Join(base, path), nil
}

func readProperties(path string) (map[string]string, error) {
	if !exists(path) {
		return nil, &Error{kind: KindMissingConfig, path: path}
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{kind: KindMissingConfig, path: path}
		}
		return nil, fmt.Errorf("signing: open %s: %w", path, err)
	}
	defer file.Close()

	values, err := LoadProperties(file)
	if err != nil {
		return nil, fmt.Errorf("signing: read %s: %w", path, err)
	}
	return values, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
