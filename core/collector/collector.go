package collector

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// Collect runs the full C1 pipeline: walk, profile, and tool extraction.
func Collect(root string) (*Collection, error) {
	files, err := Walk(root)
	if err != nil {
		return nil, err
	}

	return &Collection{
		Files:   files,
		Profile: DeriveProfile(files),
		Tools:   ExtractToolDefinitions(files),
	}, nil
}

// SourceHash computes the Report's source_hash: SHA-256 over the collected
// files' (path, content) pairs in sorted-path order, so two collections of
// the same source produce the same hash regardless of walk order.
func SourceHash(files []FileEntry) string {
	sorted := make([]FileEntry, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	h := sha256.New()
	for _, f := range sorted {
		h.Write([]byte(f.Path))
		h.Write([]byte{0})
		h.Write([]byte(f.Content))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
