// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package gistpath

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       Path
		normalized string
	}{
		{
			name:  "empty is root",
			input: "",
			want:  Path{},
		},
		{
			name:  "whitespace is root",
			input: "   ",
			want:  Path{},
		},
		{
			name:       "owner only",
			input:      "octocat",
			want:       Path{Owner: "octocat", Original: "octocat"},
			normalized: "octocat",
		},
		{
			name:       "owner and gist",
			input:      "octocat/ABC123",
			want:       Path{Owner: "octocat", GistID: "abc123", Original: "octocat/ABC123"},
			normalized: "octocat/abc123",
		},
		{
			name:       "backslash separators",
			input:      `octocat\abc123\file.txt`,
			want:       Path{Owner: "octocat", GistID: "abc123", FileName: "file.txt", Original: `octocat\abc123\file.txt`},
			normalized: "octocat/abc123/file.txt",
		},
		{
			name:       "slashes in file name fold to backslash",
			input:      "octocat/abc123/dir/file.txt",
			want:       Path{Owner: "octocat", GistID: "abc123", FileName: `dir\file.txt`, Original: "octocat/abc123/dir/file.txt"},
			normalized: `octocat/abc123/dir\file.txt`,
		},
		{
			name:       "trailing separator leaves empty gist",
			input:      "octocat/",
			want:       Path{Owner: "octocat", Original: "octocat/"},
			normalized: "octocat",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			if n := got.Normalized(); n != tt.normalized {
				t.Errorf("Normalized() = %q, want %q", n, tt.normalized)
			}
		})
	}
}

func TestChildName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"octocat", "octocat"},
		{"octocat/abc", "abc"},
		{"octocat/abc/a.txt", "a.txt"},
	}
	for _, tt := range tests {
		if got := Parse(tt.input).ChildName(); got != tt.want {
			t.Errorf("Parse(%q).ChildName() = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSplitDrive(t *testing.T) {
	tests := []struct {
		input     string
		wantDrive string
		wantRest  string
	}{
		{"Gist:octocat/abc", "Gist", "octocat/abc"},
		{"Gist:/octocat", "Gist", "octocat"},
		{"work:", "work", ""},
		{"octocat/abc", "", "octocat/abc"},
		{"octocat/a:b", "", "octocat/a:b"},
		{":octocat", "", ":octocat"},
	}
	for _, tt := range tests {
		d, r := SplitDrive(tt.input)
		if d != tt.wantDrive || r != tt.wantRest {
			t.Errorf("SplitDrive(%q) = (%q, %q), want (%q, %q)", tt.input, d, r, tt.wantDrive, tt.wantRest)
		}
	}
}

func TestJoin(t *testing.T) {
	tests := []struct {
		root, rel, want string
	}{
		{"", "octocat/abc", "octocat/abc"},
		{"octocat", "", "octocat"},
		{"octocat", "abc/file", "octocat/abc/file"},
		{"octocat/", "/abc", "octocat/abc"},
	}
	for _, tt := range tests {
		if got := Join(tt.root, tt.rel); got != tt.want {
			t.Errorf("Join(%q, %q) = %q, want %q", tt.root, tt.rel, got, tt.want)
		}
	}
}
