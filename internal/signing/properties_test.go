package signing

import (
	"bytes"
	"strings"
	"testing"
)

func TestWritePropertiesReadsBack(t *testing.T) {
	creds := Credentials{
		KeyAlias:      "upload",
		KeyPassword:   "p=ss:word#1",
		StoreFile:     "upload-keystore.jks",
		StorePassword: "store pass",
	}
	var buf bytes.Buffer
	if err := WriteProperties(&buf, creds); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "#") {
		t.Fatalf("expected header comment, got %q", out)
	}
	aliasAt := strings.Index(out, "keyAlias")
	storeAt := strings.Index(out, "storePassword")
	if aliasAt < 0 || storeAt < 0 || aliasAt > storeAt {
		t.Fatalf("keys not in canonical order:\n%s", out)
	}

	values, err := LoadProperties(strings.NewReader(out))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if values[KeyPassword] != creds.KeyPassword {
		t.Fatalf("keyPassword = %q, want %q", values[KeyPassword], creds.KeyPassword)
	}
	if values[StorePassword] != creds.StorePassword {
		t.Fatalf("storePassword = %q, want %q", values[StorePassword], creds.StorePassword)
	}
}

func TestWritePropertiesRejectsBlank(t *testing.T) {
	var buf bytes.Buffer
	err := WriteProperties(&buf, Credentials{KeyAlias: "a", KeyPassword: " ", StoreFile: "s.jks"})
	if err == nil {
		t.Fatalf("expected error for blank credentials")
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing should be written on error, got %q", buf.String())
	}
	if blank := (Credentials{KeyAlias: "a", KeyPassword: " ", StoreFile: "s.jks"}).Blank(); len(blank) != 2 {
		t.Fatalf("blank = %v, want keyPassword and storePassword", blank)
	}
}

func TestLoadPropertiesFormats(t *testing.T) {
	input := "# comment\n! bang comment\nkeyAlias = upload\nkeyPassword:pw1\nstoreFile   key.jks\n"
	values, err := LoadProperties(strings.NewReader(input))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := map[string]string{KeyAlias: "upload", KeyPassword: "pw1", StoreFile: "key.jks"}
	for key, value := range want {
		if values[key] != value {
			t.Fatalf("%s = %q, want %q", key, values[key], value)
		}
	}
	if len(values) != len(want) {
		t.Fatalf("unexpected keys: %v", values)
	}
}

func TestWritePropertiesEscapesNonASCII(t *testing.T) {
	creds := Credentials{
		KeyAlias:      "upload",
		KeyPassword:   "Grüße",
		StoreFile:     "upload-keystore.jks",
		StorePassword: "pässwörd€",
	}
	var buf bytes.Buffer
	if err := WriteProperties(&buf, creds); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for i := 0; i < len(out); i++ {
		if out[i] >= 0x80 {
			t.Fatalf("byte %d = %#x is not ASCII:\n%s", i, out[i], out)
		}
	}
	if !strings.Contains(strings.ToLower(out), `p\u00e4ssw\u00f6rd\u20ac`) {
		t.Fatalf("expected \\u escapes for storePassword, got:\n%s", out)
	}

	values, err := LoadProperties(strings.NewReader(out))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if values[StorePassword] != creds.StorePassword {
		t.Fatalf("storePassword = %q, want %q", values[StorePassword], creds.StorePassword)
	}
	if values[KeyPassword] != creds.KeyPassword {
		t.Fatalf("keyPassword = %q, want %q", values[KeyPassword], creds.KeyPassword)
	}
}

func TestWritePropertiesRejectsSupplementaryRunes(t *testing.T) {
	var buf bytes.Buffer
	creds := Credentials{KeyAlias: "upload", KeyPassword: "pw🔑", StoreFile: "s.jks", StorePassword: "pw"}
	if err := WriteProperties(&buf, creds); err == nil {
		t.Fatalf("expected error for a rune outside the BMP")
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing should be written on error, got %q", buf.String())
	}
}

func TestLoadPropertiesDecodesLatin1(t *testing.T) {
	values, err := LoadProperties(strings.NewReader("keyPassword=p\xe4ss\nstorePassword=caf\\u00e9\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if values[KeyPassword] != "päss" {
		t.Fatalf("keyPassword = %q, want %q", values[KeyPassword], "päss")
	}
	if values[StorePassword] != "café" {
		t.Fatalf("storePassword = %q, want %q", values[StorePassword], "café")
	}
}
