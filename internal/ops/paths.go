package ops

import "strings"

// isoBasicLayout is Go's reference-time layout for MTP's compact ISO-8601
// basic date strings, e.g. "20060102T150405".
const isoBasicLayout = "20060102T150405"

// splitParent returns the path's parent and whether that parent is the
// storage root (mountPrefix + ":/"). Paths follow the
// "<mountPrefix>:/<relative>" convention; a path with no relative component
// (directly under the root) has parent equal to the root itself.
func splitParent(path, mountPrefix string) (parent string, isRoot bool) {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return mountPrefix + ":/", true
	}
	dir := path[:idx]
	root := mountPrefix + ":"
	if dir == root {
		return mountPrefix + ":/", true
	}
	return dir, false
}

// baseName returns the final path component.
func baseName(path string) string {
	idx := strings.LastIndex(path, "/")
	return path[idx+1:]
}
