// ABOUTME: Content-addressed cache key derivation for each namespace
// ABOUTME: Keys are SHA-256 over length-prefixed inputs so field boundaries cannot blur
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"sort"
	"strings"
)

const keyPrefix = "orbit:"

// CardKey derives the card namespace key from content type and raw input
func CardKey(contentType, raw string) string {
	return NamespaceCard.key(contentType, raw)
}

// EmbeddingKey derives the embedding namespace key from the text being embedded
func EmbeddingKey(raw string) string {
	return NamespaceEmbedding.key(raw)
}

// MagnetKey derives the magnet namespace key. Card ids are sorted first, so
// the key does not depend on the order the caller supplied them in.
func MagnetKey(constraint string, cardIDs []string) string {
	sorted := make([]string, len(cardIDs))
	copy(sorted, cardIDs)
	sort.Strings(sorted)

	parts := make([]string, 0, len(sorted)+1)
	parts = append(parts, constraint)
	parts = append(parts, sorted...)
	return NamespaceMagnet.key(parts...)
}

func (n Namespace) key(parts ...string) string {
	h := sha256.New()
	writePart(h, string(n))
	for _, p := range parts {
		writePart(h, p)
	}
	return keyPrefix + string(n) + ":" + hex.EncodeToString(h.Sum(nil))
}

func writePart(h hash.Hash, s string) {
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(s)))
	h.Write(lenBuf[:])
	h.Write([]byte(s))
}

// namespaceOf returns the namespace segment of a derived key, or "other"
func namespaceOf(key string) string {
	rest, ok := strings.CutPrefix(key, keyPrefix)
	if !ok {
		return "other"
	}
	ns, _, ok := strings.Cut(rest, ":")
	if !ok {
		return "other"
	}
	return ns
}
