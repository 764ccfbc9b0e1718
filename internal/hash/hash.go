// Package hash computes line-ending-insensitive content hashes.
//
// Stagesync compares the same logical file across local disk, a git reference,
// and a remote server that may store it with different line-ending conventions.
// Every hash is therefore computed over the content with all CR and LF bytes
// removed, so "a\r\nb" and "a\nb" hash identically. The raw byte size is
// reported alongside for the size-only comparison mode.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Hasher provides an abstraction for normalized content hashing.
type Hasher interface {
	// SumBytes computes the normalized hash of in-memory content.
	SumBytes(data []byte) string

	// SumFile computes the normalized hash and raw byte size of the file
	// at the given path.
	SumFile(path string) (string, int64, error)
}

// NormalizedSHA256 implements Hasher using SHA-256 over CR/LF-stripped content.
type NormalizedSHA256 struct{}

// NewNormalizedSHA256 creates a new NormalizedSHA256.
func NewNormalizedSHA256() *NormalizedSHA256 {
	return &NormalizedSHA256{}
}

// Normalize returns data with every '\r' and '\n' byte removed.
func Normalize(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, b := range data {
		if b == '\r' || b == '\n' {
			continue
		}
		out = append(out, b)
	}
	return out
}

// SumBytes computes the normalized SHA-256 hash of in-memory content.
func (h *NormalizedSHA256) SumBytes(data []byte) string {
	sum := sha256.Sum256(Normalize(data))
	return hex.EncodeToString(sum[:])
}

// SumFile computes the normalized SHA-256 hash and raw byte size of a file.
// The file is streamed in chunks; size counts bytes before normalization.
func (h *NormalizedSHA256) SumFile(path string) (string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	hasher := sha256.New()
	var size int64
	buf := make([]byte, 32*1024)
	for {
		n, err := file.Read(buf)
		if n > 0 {
			size += int64(n)
			if _, werr := hasher.Write(Normalize(buf[:n])); werr != nil {
				return "", 0, fmt.Errorf("failed to hash file: %w", werr)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", 0, fmt.Errorf("failed to read file: %w", err)
		}
	}

	return hex.EncodeToString(hasher.Sum(nil)), size, nil
}

// FakeHasher implements Hasher with deterministic hashes for testing.
type FakeHasher struct {
	byContent map[string]string
	byPath    map[string]string
	sizes     map[string]int64
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{
		byContent: make(map[string]string),
		byPath:    make(map[string]string),
		sizes:     make(map[string]int64),
	}
}

// SetContentHash sets the hash returned for specific content.
func (h *FakeHasher) SetContentHash(content, hash string) {
	h.byContent[content] = hash
}

// SetFileHash sets the hash and size returned for a specific path.
func (h *FakeHasher) SetFileHash(path, hash string, size int64) {
	h.byPath[path] = hash
	h.sizes[path] = size
}

// SumBytes returns the predetermined hash for the given content.
func (h *FakeHasher) SumBytes(data []byte) string {
	if hash, ok := h.byContent[string(data)]; ok {
		return hash
	}
	// Default: content is its own hash, which keeps tests readable
	return string(data)
}

// SumFile returns the predetermined hash for the given path.
func (h *FakeHasher) SumFile(path string) (string, int64, error) {
	if hash, ok := h.byPath[path]; ok {
		return hash, h.sizes[path], nil
	}
	return "", 0, os.ErrNotExist
}
