// Package gistpath parses provider paths of the form owner/gistid/filename.
//
// Either '/' or '\' separates the owner from the gist id and the gist id from
// the file name. File names may legitimately contain '\', so anything after the
// second separator is the file name with '/' folded to '\'. Gist ids are
// lowercased; owner and file name keep their case.
package gistpath

import (
	"strings"
)

// Path is a parsed provider path. Empty fields are absent.
type Path struct {
	Owner    string
	GistID   string
	FileName string
	// Original is the path as given.
	Original string
}

// Parse splits path into its parts. A blank path is the provider root.
func Parse(path string) Path {
	if strings.TrimSpace(path) == "" {
		return Path{}
	}
	p := Path{Original: path}

	rest := path
	i := strings.IndexAny(rest, `/\`)
	if i < 0 {
		p.Owner = rest
		return p
	}
	p.Owner = rest[:i]
	rest = rest[i+1:]

	i = strings.IndexAny(rest, `/\`)
	if i < 0 {
		p.GistID = strings.ToLower(rest)
		return p
	}
	p.GistID = strings.ToLower(rest[:i])
	p.FileName = strings.ReplaceAll(rest[i+1:], "/", `\`)
	return p
}

// IsRoot reports whether no owner was given.
func (p Path) IsRoot() bool { return isBlank(p.Owner) }

// HasGist reports whether a gist id was given.
func (p Path) HasGist() bool { return !isBlank(p.GistID) }

// HasFile reports whether a file name was given.
func (p Path) HasFile() bool { return !isBlank(p.FileName) }

// Normalized joins the present parts with '/'.
func (p Path) Normalized() string {
	if p.IsRoot() {
		return ""
	}
	out := p.Owner
	if p.HasGist() {
		out += "/" + p.GistID
		if p.HasFile() {
			out += "/" + p.FileName
		}
	}
	return out
}

// ChildName returns the last present part: file name, gist id or owner.
func (p Path) ChildName() string {
	switch {
	case p.HasFile():
		return p.FileName
	case p.HasGist():
		return p.GistID
	default:
		return p.Owner
	}
}

// String returns the original path.
func (p Path) String() string { return p.Original }

// SplitDrive separates a "name:" drive prefix from path. Paths without a
// prefix return an empty drive.
func SplitDrive(path string) (drive, rest string) {
	i := strings.Index(path, ":")
	if i <= 0 || strings.ContainsAny(path[:i], `/\`) {
		return "", path
	}
	return path[:i], strings.TrimLeft(path[i+1:], `/\`)
}

// Join places rel under root, ignoring empty parts.
func Join(root, rel string) string {
	root = strings.TrimRight(root, `/\`)
	rel = strings.TrimLeft(rel, `/\`)
	switch {
	case root == "":
		return rel
	case rel == "":
		return root
	}
	return root + "/" + rel
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
