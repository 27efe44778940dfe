package digest

import (
	"crypto/md5"
	"encoding/hex"
	"testing"
)

func TestEmptyStringVector(t *testing.T) {
	got := Sum(nil)
	want := "84d1ce3bd68f49ab26eb0f96416617cf"
	if got != want {
		t.Fatalf("Sum(\"\") = %s, want %s", got, want)
	}
}

func TestDiffersFromStandardMD5(t *testing.T) {
	for _, s := range []string{"abc", "The quick brown fox jumps over the lazy dog"} {
		ours := Sum([]byte(s))
		std := md5.Sum([]byte(s))
		stdHex := hex.EncodeToString(std[:])
		if ours == stdHex {
			t.Fatalf("digest of %q matches standard MD5 (%s); the variant must differ", s, ours)
		}
	}
}

func TestHexDigestLength(t *testing.T) {
	got := Sum([]byte("arbitrary blueprint text"))
	if len(got) != 32 {
		t.Fatalf("digest length = %d, want 32", len(got))
	}
}

func TestDeterministic(t *testing.T) {
	a := Sum([]byte("same input"))
	b := Sum([]byte("same input"))
	if a != b {
		t.Fatalf("digest not deterministic: %s vs %s", a, b)
	}
}
