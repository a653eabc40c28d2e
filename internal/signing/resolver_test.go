package signing

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestResolveRelativeStoreFile(t *testing.T) {
	projectDir := t.TempDir()
	propsPath := filepath.Join(projectDir, "key", "key.properties")
	writeFile(t, propsPath, strings.Join([]string{
		"keyAlias=upload",
		"keyPassword=pw1",
		"storeFile=upload-keystore.jks",
		"storePassword=pw2",
	}, "\n"))
	writeFile(t, filepath.Join(projectDir, "key", "upload-keystore.jks"), "jks")

	cfg, err := Resolve(propsPath)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.KeyAlias() != "upload" {
		t.Fatalf("keyAlias = %q, want upload", cfg.KeyAlias())
	}
	if cfg.KeyPassword() != "pw1" {
		t.Fatalf("keyPassword = %q, want pw1", cfg.KeyPassword())
	}
	if cfg.StorePassword() != "pw2" {
		t.Fatalf("storePassword = %q, want pw2", cfg.StorePassword())
	}
	want := filepath.Join(projectDir, "key", "upload-keystore.jks")
	if cfg.StoreFile() != want {
		t.Fatalf("storeFile = %q, want %q", cfg.StoreFile(), want)
	}
}

func TestResolveRelativeStoreFileIgnoresWorkingDirectory(t *testing.T) {
	projectDir := t.TempDir()
	otherDir := t.TempDir()
	propsPath := filepath.Join(projectDir, "key", "key.properties")
	writeFile(t, propsPath, "keyAlias=a\nkeyPassword=b\nstoreFile=store.jks\nstorePassword=c\n")
	// A decoy next to the working directory must not satisfy the lookup.
	writeFile(t, filepath.Join(otherDir, "store.jks"), "decoy")

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(otherDir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_, err = Resolve(propsPath)
	if !errors.Is(err, ErrMissingKeystore) {
		t.Fatalf("expected missing keystore, got %v", err)
	}

	writeFile(t, filepath.Join(projectDir, "key", "store.jks"), "jks")
	cfg, err := Resolve(propsPath)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.StoreFile() != filepath.Join(projectDir, "key", "store.jks") {
		t.Fatalf("storeFile = %q", cfg.StoreFile())
	}
}

func TestResolveAbsoluteStoreFileUnchanged(t *testing.T) {
	keyDir := t.TempDir()
	storeDir := t.TempDir()
	keystore := filepath.Join(storeDir, "release.jks")
	writeFile(t, keystore, "jks")
	propsPath := filepath.Join(keyDir, "key.properties")
	writeFile(t, propsPath, "keyAlias=a\nkeyPassword=b\nstoreFile="+keystore+"\nstorePassword=c\n")

	cfg, err := Resolve(propsPath)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.StoreFile() != keystore {
		t.Fatalf("storeFile = %q, want %q", cfg.StoreFile(), keystore)
	}
}

func TestResolveMissingConfig(t *testing.T) {
	propsPath := filepath.Join(t.TempDir(), "key", "key.properties")
	_, err := Resolve(propsPath)
	if err == nil {
		t.Fatalf("expected error")
	}
	if KindOf(err) != KindMissingConfig {
		t.Fatalf("kind = %s, want MissingConfig", KindOf(err))
	}
	if !errors.Is(err, ErrMissingConfig) {
		t.Fatalf("errors.Is(ErrMissingConfig) = false for %v", err)
	}
	if !strings.Contains(err.Error(), propsPath) {
		t.Fatalf("message %q does not name %s", err.Error(), propsPath)
	}
}

func TestResolveIncompleteConfig(t *testing.T) {
	full := map[string]string{
		KeyAlias:      "upload",
		KeyPassword:   "pw1",
		StoreFile:     "upload-keystore.jks",
		StorePassword: "pw2",
	}
	tests := []struct {
		name  string
		key   string
		value string
		omit  bool
	}{
		{name: "missing-keyAlias", key: KeyAlias, omit: true},
		{name: "missing-keyPassword", key: KeyPassword, omit: true},
		{name: "missing-storeFile", key: StoreFile, omit: true},
		{name: "missing-storePassword", key: StorePassword, omit: true},
		{name: "empty-keyAlias", key: KeyAlias, value: ""},
		{name: "blank-keyPassword", key: KeyPassword, value: "   "},
		{name: "tab-storeFile", key: StoreFile, value: "\t"},
		{name: "empty-storePassword", key: StorePassword, value: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "upload-keystore.jks"), "jks")
			var lines []string
			for _, key := range RequiredKeys {
				if key != tt.key {
					lines = append(lines, key+"="+full[key])
					continue
				}
				if !tt.omit {
					lines = append(lines, key+"="+tt.value)
				}
			}
			propsPath := filepath.Join(dir, "key.properties")
			writeFile(t, propsPath, strings.Join(lines, "\n")+"\n")

			_, err := Resolve(propsPath)
			if !errors.Is(err, ErrIncompleteConfig) {
				t.Fatalf("expected incomplete config, got %v", err)
			}
			if err.Error() != "Incomplete signing config in key.properties" {
				t.Fatalf("message = %q", err.Error())
			}
			var serr *Error
			if !errors.As(err, &serr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			missing := serr.MissingKeys()
			if len(missing) != 1 || missing[0] != tt.key {
				t.Fatalf("missing keys = %v, want [%s]", missing, tt.key)
			}
		})
	}
}

func TestResolveMissingKeystoreReportsOriginalValue(t *testing.T) {
	dir := t.TempDir()
	propsPath := filepath.Join(dir, "key.properties")
	writeFile(t, propsPath, "keyAlias=a\nkeyPassword=b\nstoreFile=keys/absent.jks\nstorePassword=c\n")

	_, err := Resolve(propsPath)
	if KindOf(err) != KindMissingKeystore {
		t.Fatalf("kind = %s, want MissingKeystore (%v)", KindOf(err), err)
	}
	if !strings.Contains(err.Error(), "keys/absent.jks") {
		t.Fatalf("message %q does not contain original value", err.Error())
	}
	if strings.Contains(err.Error(), dir) {
		t.Fatalf("message %q should carry the relative value, not the resolved path", err.Error())
	}
}

func TestResolveDuplicateKeysLastWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "store.jks"), "jks")
	propsPath := filepath.Join(dir, "key.properties")
	writeFile(t, propsPath, "keyAlias=first\nkeyPassword=b\nstoreFile=store.jks\nstorePassword=c\nkeyAlias=second\n")

	cfg, err := Resolve(propsPath)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.KeyAlias() != "second" {
		t.Fatalf("keyAlias = %q, want second", cfg.KeyAlias())
	}
}

func TestResolveKeepsReferencesLiteral(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "store.jks"), "jks")
	propsPath := filepath.Join(dir, "key.properties")
	writeFile(t, propsPath, "keyAlias=a\nkeyPassword=${undefined}\nstoreFile=store.jks\nstorePassword=p${w}d\n")

	cfg, err := Resolve(propsPath)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.KeyPassword() != "${undefined}" {
		t.Fatalf("keyPassword = %q", cfg.KeyPassword())
	}
	if cfg.StorePassword() != "p${w}d" {
		t.Fatalf("storePassword = %q", cfg.StorePassword())
	}
}

func TestResolverBaseDirAnchorsRelativePropertiesPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "key", "store.jks"), "jks")
	writeFile(t, filepath.Join(root, "key", "key.properties"), "keyAlias=a\nkeyPassword=b\nstoreFile=store.jks\nstorePassword=c\n")

	cfg, err := NewResolver(root).Resolve(filepath.Join("key", "key.properties"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.StoreFile() != filepath.Join(root, "key", "store.jks") {
		t.Fatalf("storeFile = %q", cfg.StoreFile())
	}
}

func TestSigningConfigStringRedactsPasswords(t *testing.T) {
	cfg := SigningConfig{keyAlias: "upload", keyPassword: "secret-1", storeFile: "/k/s.jks", storePassword: "secret-2"}
	for _, rendered := range []string{cfg.String(), cfg.GoString()} {
		if strings.Contains(rendered, "secret-1") || strings.Contains(rendered, "secret-2") {
			t.Fatalf("rendered config leaks a password: %s", rendered)
		}
		if !strings.Contains(rendered, "upload") || !strings.Contains(rendered, "/k/s.jks") {
			t.Fatalf("rendered config missing public fields: %s", rendered)
		}
	}
	if cfg.IsZero() {
		t.Fatalf("populated config reported zero")
	}
	if !(SigningConfig{}).IsZero() {
		t.Fatalf("zero config not reported zero")
	}
}
