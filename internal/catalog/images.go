package catalog

import (
	"fmt"
	"strings"

	"github.com/thisishowislab/slabcity-studio/internal/contentful"
)

var (
	multiImageFields  = []string{"productImages", "images", "gallery", "tourImages"}
	singleImageFields = []string{"productImage", "tourImage", "image"}
)

// imageSize is a request variant served by the Contentful Images API.
type imageSize struct {
	width   int
	quality int
}

var (
	gridSize  = imageSize{width: 1200, quality: 80}
	mainSize  = imageSize{width: 900, quality: 75}
	thumbSize = imageSize{width: 300, quality: 60}
)

// ResolveImages returns the image sets of an entry in field order. Gallery
// fields win; single image fields are only consulted when no gallery image
// resolves. Links to assets missing from the snapshot are skipped.
func ResolveImages(f contentful.Fields, snapshot *contentful.Snapshot) []ImageSet {
	sets := []ImageSet{}

	for _, id := range f.LinkIDs(multiImageFields...) {
		if set, ok := imageSetFor(snapshot, id); ok {
			sets = append(sets, set)
		}
	}
	if len(sets) > 0 {
		return sets
	}

	for _, field := range singleImageFields {
		id, ok := f.LinkID(field)
		if !ok {
			continue
		}
		if set, ok := imageSetFor(snapshot, id); ok {
			return append(sets, set)
		}
	}
	return sets
}

func imageSetFor(snapshot *contentful.Snapshot, assetID string) (ImageSet, bool) {
	raw, ok := snapshot.AssetURL(assetID)
	if !ok {
		return ImageSet{}, false
	}
	set := NewImageSet(raw)
	set.Alt = snapshot.Assets[assetID].Fields.Title
	return set, true
}

// NewImageSet derives the sized variants of an asset URL. Scheme-relative
// URLs are upgraded to https first.
func NewImageSet(rawURL string) ImageSet {
	original := NormalizeURL(rawURL)
	return ImageSet{
		Original: original,
		Grid:     sized(original, gridSize),
		Main:     sized(original, mainSize),
		Thumb:    sized(original, thumbSize),
	}
}

// NormalizeURL turns //host/path into https://host/path.
func NormalizeURL(u string) string {
	u = strings.TrimSpace(u)
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}

func sized(u string, size imageSize) string {
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sw=%d&q=%d&fm=webp", u, sep, size.width, size.quality)
}
