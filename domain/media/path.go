package media

import "strings"

// ExtensionSet is an immutable set of file extensions (without the leading dot)
type ExtensionSet map[string]struct{}

// NewExtensionSet creates an ExtensionSet from the given extensions
func NewExtensionSet(exts ...string) ExtensionSet {
	set := make(ExtensionSet, len(exts))
	for _, ext := range exts {
		set[ext] = struct{}{}
	}
	return set
}

// Contains reports whether ext is a member of the set. Matching is case-sensitive.
func (s ExtensionSet) Contains(ext string) bool {
	_, ok := s[ext]
	return ok
}

var (
	// VideoExtensions are the containers the extractor accepts in batch mode
	VideoExtensions = NewExtensionSet("mp4", "avi", "mov", "mkv")

	// AudioExtensions are the files the normalizer and tagger accept in batch mode
	AudioExtensions = NewExtensionSet("mp3")
)

// SplitNameExt splits a file path into name and extension at the last "." of
// the final path segment. Unless fullPath is set, directories are stripped from
// the name. Backslashes are treated as path separators.
func SplitNameExt(path string, fullPath bool) (name, ext string) {
	normalized := strings.ReplaceAll(path, "\\", "/")
	segStart := strings.LastIndex(normalized, "/") + 1

	name = path
	if dot := strings.LastIndex(normalized[segStart:], "."); dot >= 0 {
		name = path[:segStart+dot]
		ext = path[segStart+dot+1:]
	}

	if !fullPath {
		name = name[segStart:]
	}
	return name, ext
}

// HasValidExtension returns true if the extension of path is in allowed
func HasValidExtension(path string, allowed ExtensionSet) bool {
	_, ext := SplitNameExt(path, false)
	return allowed.Contains(ext)
}
