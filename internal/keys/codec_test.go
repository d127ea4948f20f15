package keys

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestObfuscate_RoundTrip(t *testing.T) {
	cases := []struct {
		name     string
		data     []byte
		password string
	}{
		{"short", []byte("secret"), "pw"},
		{"password longer than data", []byte("ab"), "a-much-longer-password"},
		{"data longer than password", bytes.Repeat([]byte{0xAB}, 100), "xy"},
		{"binary data", []byte{0x00, 0xFF, 0x10, 0x7F}, "p"},
		{"empty data", []byte{}, "password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Deobfuscate(Obfuscate(tc.data, tc.password), tc.password)
			if !bytes.Equal(got, tc.data) {
				t.Errorf("round trip mismatch: got %x, want %x", got, tc.data)
			}
		})
	}
}

func TestObfuscate_RoundTrip_Random(t *testing.T) {
	for i := 0; i < 20; i++ {
		data := make([]byte, 64)
		rand.Read(data)
		pw := make([]byte, 1+i)
		rand.Read(pw)

		got := Deobfuscate(Obfuscate(data, string(pw)), string(pw))
		if !bytes.Equal(got, data) {
			t.Fatalf("round trip mismatch for random input %d", i)
		}
	}
}

func TestObfuscate_EmptyPasswordPassthrough(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0xFF}

	got := Obfuscate(data, "")
	if !bytes.Equal(got, data) {
		t.Errorf("empty password should be a passthrough: got %x, want %x", got, data)
	}
}

func TestObfuscate_ChangesData(t *testing.T) {
	data := []byte("private key material")

	got := Obfuscate(data, "password")
	if bytes.Equal(got, data) {
		t.Error("non-empty password should transform the data")
	}
}

func TestObfuscate_DoesNotMutateInput(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	orig := append([]byte(nil), data...)

	Obfuscate(data, "pw")
	if !bytes.Equal(data, orig) {
		t.Error("input slice was mutated")
	}
}
