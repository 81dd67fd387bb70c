package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thisishowislab/slabcity-studio/internal/contentful"
)

// newEntry builds an entry whose fields are the JSON encoding of values.
func newEntry(t *testing.T, id string, values map[string]any) contentful.Entry {
	t.Helper()

	fields := contentful.Fields{}
	for key, value := range values {
		raw, err := json.Marshal(value)
		require.NoError(t, err)
		fields[key] = raw
	}
	return contentful.Entry{Sys: contentful.Sys{ID: id, Type: "Entry"}, Fields: fields}
}

func link(id string) map[string]any {
	return map[string]any{"sys": map[string]any{"type": "Link", "linkType": "Asset", "id": id}}
}

func newAsset(id, url string) contentful.Asset {
	return contentful.Asset{
		Sys: contentful.Sys{ID: id, Type: "Asset"},
		Fields: contentful.AssetFields{
			Title: "asset " + id,
			File:  &contentful.AssetFile{URL: url, ContentType: "image/jpeg"},
		},
	}
}

func newSnapshot(entries []contentful.Entry, assets ...contentful.Asset) *contentful.Snapshot {
	s := &contentful.Snapshot{Entries: entries, Assets: map[string]contentful.Asset{}}
	for _, a := range assets {
		s.Assets[a.Sys.ID] = a
	}
	return s
}

func priceID(item Item) string {
	if item.StripePriceID == nil {
		return ""
	}
	return *item.StripePriceID
}
