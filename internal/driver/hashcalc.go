package driver

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// combineDigest: H(content || dep1 || dep2 ...). deps уже в детерминированном порядке.
func combineDigest(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// optionsDigest fingerprints the options that change annotation output.
func optionsDigest(opts Options) Digest {
	text := fmt.Sprintf("schema=%d;untyped=%t;blacklist=%s",
		diskCacheSchemaVersion, opts.Untyped, strings.Join(opts.Blacklist, ","))
	return sha256.Sum256([]byte(text))
}
