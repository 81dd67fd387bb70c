package contentful

import "encoding/json"

// Sys is the system metadata block Contentful attaches to every resource.
type Sys struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	LinkType string `json:"linkType,omitempty"`
}

// Link is a reference from an entry field to another resource.
type Link struct {
	Sys Sys `json:"sys"`
}

// Entry is a single content entry. Fields are kept raw so callers can read
// them tolerantly and nested JSON keeps its source key order.
type Entry struct {
	Sys    Sys    `json:"sys"`
	Fields Fields `json:"fields"`
}

// Asset is a linked binary resource.
type Asset struct {
	Sys    Sys         `json:"sys"`
	Fields AssetFields `json:"fields"`
}

type AssetFields struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	File        *AssetFile `json:"file"`
}

type AssetFile struct {
	URL         string `json:"url"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

// Snapshot is everything one catalog pass reads from the space.
type Snapshot struct {
	Entries []Entry
	Assets  map[string]Asset
}

// AssetURL returns the file URL of the asset with the given id.
func (s *Snapshot) AssetURL(id string) (string, bool) {
	if s == nil || id == "" {
		return "", false
	}
	asset, ok := s.Assets[id]
	if !ok || asset.Fields.File == nil || asset.Fields.File.URL == "" {
		return "", false
	}
	return asset.Fields.File.URL, true
}

type entriesResponse struct {
	Total    int     `json:"total"`
	Skip     int     `json:"skip"`
	Limit    int     `json:"limit"`
	Items    []Entry `json:"items"`
	Includes struct {
		Asset []Asset           `json:"Asset"`
		Entry []json.RawMessage `json:"Entry"`
	} `json:"includes"`
}
