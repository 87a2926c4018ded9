package testsupport

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// LoadFixture reads testdata/<name> relative to the calling package.
func LoadFixture(tb testing.TB, name string) []byte {
	tb.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		tb.Fatalf("load fixture %s: %v", name, err)
	}
	return data
}

// LoadGolden decodes testdata/<name> into v. Numbers decode as json.Number
// so they compare equal to payloads decoded the same way.
func LoadGolden(tb testing.TB, name string, v any) {
	tb.Helper()
	decoder := json.NewDecoder(bytes.NewReader(LoadFixture(tb, name)))
	decoder.UseNumber()
	if err := decoder.Decode(v); err != nil {
		tb.Fatalf("decode golden %s: %v", name, err)
	}
}
