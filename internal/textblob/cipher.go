package textblob

// LineSeed returns the initial cipher key for the line at index.
func LineSeed(index int) uint16 {
	return CipherIV + CipherMultiplier*uint16(index)
}

// Crypt applies the keyed XOR stream in place. The transform is its own
// inverse, so the same call encrypts and decrypts.
func Crypt(words []uint16, seed uint16) {
	key := seed
	for i := range words {
		words[i] ^= key
		key = key<<3 | key>>13
	}
}
