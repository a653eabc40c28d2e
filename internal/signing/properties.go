package signing

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/magiconair/properties"
)

const propertiesHeader = "# Release signing credentials. Keep this file out of version control.\n"

// key.properties is read by java.util.Properties.load(InputStream), which
// decodes ISO-8859-1 and honours \uXXXX escapes.
const propertiesEncoding = properties.ISO_8859_1

// LoadProperties parses a flat properties document. Duplicate keys resolve
// to the last value; ${...} references are left as literal text.
func LoadProperties(r io.Reader) (map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	loader := &properties.Loader{Encoding: propertiesEncoding, DisableExpansion: true}
	p, err := loader.LoadBytes(data)
	if err != nil {
		return nil, err
	}
	return p.Map(), nil
}

// WriteProperties writes creds as a key.properties document in canonical
// key order. The output is pure ASCII: every non-ASCII character is written
// as a \uXXXX escape.
func WriteProperties(w io.Writer, creds Credentials) error {
	if blank := creds.Blank(); len(blank) > 0 {
		return fmt.Errorf("signing: cannot write properties, blank keys: %s", strings.Join(blank, ", "))
	}
	values := creds.values()
	p := properties.NewProperties()
	p.DisableExpansion = true
	for _, key := range RequiredKeys {
		if r, ok := outsideBMP(values[key]); ok {
			return fmt.Errorf("signing: %s contains %U, which key.properties cannot represent", key, r)
		}
		if _, _, err := p.Set(key, values[key]); err != nil {
			return fmt.Errorf("signing: set %s: %w", key, err)
		}
	}
	var buf bytes.Buffer
	buf.WriteString(propertiesHeader)
	if _, err := p.Write(&buf, propertiesEncoding); err != nil {
		return fmt.Errorf("signing: write properties: %w", err)
	}
	if _, err := io.WriteString(w, escapeLatin1(buf.String())); err != nil {
		return err
	}
	return nil
}

// escapeLatin1 turns the U+0080..U+00FF runes the ISO-8859-1 writer leaves
// as literal characters into \u00XX escapes. Higher runes are already
// escaped by the writer.
func escapeLatin1(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x80 {
			b.WriteRune(r)
			continue
		}
		fmt.Fprintf(&b, "\\u%04x", r)
	}
	return b.String()
}

func outsideBMP(s string) (rune, bool) {
	for _, r := range s {
		if r > 0xFFFF {
			return r, true
		}
	}
	return 0, false
}

func blankKeys(values map[string]string) []string {
	var blank []string
	for _, key := range RequiredKeys {
		if strings.TrimSpace(values[key]) == "" {
			blank = append(blank, key)
		}
	}
	return blank
}
