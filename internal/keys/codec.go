package keys

// Obfuscate applies a repeating-key XOR of the password over data.
//
// This is obfuscation, not encryption: XOR with a repeating key offers no
// cryptographic confidentiality. It is kept to stay byte-for-byte compatible
// with existing key files on disk. An empty password is a passthrough, not
// an error.
func Obfuscate(data []byte, password string) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	if password == "" {
		return out
	}
	key := []byte(password)
	for i := range out {
		out[i] ^= key[i%len(key)]
	}
	return out
}

// Deobfuscate reverses Obfuscate. XOR is its own inverse, so
// Deobfuscate(Obfuscate(d, p), p) == d for all d and p.
func Deobfuscate(data []byte, password string) []byte {
	return Obfuscate(data, password)
}
