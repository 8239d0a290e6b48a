// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package provider

import (
	"strconv"
	"time"

	"gisthub/cli/internal/backend"
)

// DefaultDriveName is the drive every session starts with.
const DefaultDriveName = "Gist"

// GistInfo is a gist as written to the output stream by get and ls.
type GistInfo struct {
	ID          string      `json:"id"`
	Path        string      `json:"path"`
	Description string      `json:"description,omitempty"`
	URL         string      `json:"url"`
	GitURL      string      `json:"git_url"`
	Files       []*GistFile `json:"files"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Owner       string      `json:"owner"`
	IsSecret    bool        `json:"is_secret"`

	// ProviderPath is owner/id without the drive prefix.
	ProviderPath string `json:"-"`
}

func (g *GistInfo) String() string { return g.Path }

// GistFile is one file of a gist as written to the output stream.
type GistFile struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Language string `json:"language,omitempty"`
	RawURL   string `json:"raw_url"`
	Length   int    `json:"length"`

	Gist *GistInfo `json:"-"`
}

func (f *GistFile) String() string { return f.Path }

// ProviderPath is owner/id/name without the drive prefix.
func (f *GistFile) ProviderPath() string { return f.Gist.ProviderPath + "/" + f.Name }

// newGistInfo converts a backend gist for output on drive.
func newGistInfo(drive string, g *backend.Gist) *GistInfo {
	if drive == "" {
		drive = DefaultDriveName
	}
	location := g.Owner + "/" + g.ID
	info := &GistInfo{
		ID:           g.ID,
		Path:         drive + ":" + location,
		Description:  g.Description,
		URL:          g.HTMLURL,
		GitURL:       g.GitPullURL,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
		Owner:        g.Owner,
		IsSecret:     !g.Public,
		ProviderPath: location,
	}
	for _, name := range g.FileNames() {
		f := g.Files[name]
		info.Files = append(info.Files, &GistFile{
			Name:     name,
			Path:     info.Path + "/" + name,
			Language: f.Language,
			RawURL:   f.RawURL,
			Length:   f.Size,
			Gist:     info,
		})
	}
	return info
}

// file returns the file called name, or nil.
func (g *GistInfo) file(name string) *GistFile {
	for _, f := range g.Files {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// TableHeader names the columns of a gist row.
func (g *GistInfo) TableHeader() []string {
	return []string{"Id", "Owner", "Files", "Secret", "Description"}
}

// TableRow renders the gist as a table row.
func (g *GistInfo) TableRow() []string {
	return []string{g.ID, g.Owner, strconv.Itoa(len(g.Files)), strconv.FormatBool(g.IsSecret), g.Description}
}

// TableHeader names the columns of a file row.
func (f *GistFile) TableHeader() []string {
	return []string{"Name", "Language", "Length", "Path"}
}

// TableRow renders the file as a table row.
func (f *GistFile) TableRow() []string {
	return []string{f.Name, f.Language, strconv.Itoa(f.Length), f.Path}
}
