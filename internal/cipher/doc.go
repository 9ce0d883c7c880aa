// Package cipher implements a seed-keyed rotation of BPE token ids.
//
// Text is encoded into token ids, every id is shifted modulo the vocabulary
// size by a key derived from a seed, and the shifted ids are decoded back
// into text. Decrypting with the same seed applies the inverse shift.
//
// The rotation is a keyed permutation of a small public id space. It is an
// obfuscation, not encryption: anyone can recover the text by trying every
// offset.
//
// Example usage:
//
//	tok, err := tokenizer.NewTikToken("cl100k_base")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := cipher.Transform("Hello, world!", "hunter2", cipher.Encrypt, tok)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	back, err := cipher.Transform(res.Output, "hunter2", cipher.Decrypt, tok)
package cipher
