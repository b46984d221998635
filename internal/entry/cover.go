package entry

import (
	"strconv"
	"strings"

	"github.com/mediadiet/mediadiet/internal/domain"
)

const (
	bookCoverBase   = "https://covers.openlibrary.org/b/id/"
	posterImageBase = "https://image.tmdb.org/t/p/"
)

// Size classes accepted by CoverArtURL. Any other value is read as a pixel width.
const (
	SizeSmall  = "sm"
	SizeMedium = "md"
	SizeLarge  = "lg"
)

var posterWidths = map[string]int{
	SizeSmall:  92,
	SizeMedium: 342,
	SizeLarge:  500,
}

// CoverArtURL derives the CDN URL for a stored cover reference. It returns
// nil when ref is empty.
func CoverArtURL(mediaType domain.MediaType, ref, size string) *string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}

	var url string
	switch mediaType {
	case domain.MediaTypeBook:
		url = bookCoverBase + ref + "-" + bookSizeSuffix(size) + ".jpg"
	case domain.MediaTypeMovie, domain.MediaTypeTV:
		if !strings.HasPrefix(ref, "/") {
			ref = "/" + ref
		}
		url = posterImageBase + "w" + strconv.Itoa(posterWidth(size)) + ref
	default:
		return nil
	}
	return &url
}

func posterWidth(size string) int {
	if w, ok := posterWidths[size]; ok {
		return w
	}
	if w, err := strconv.Atoi(size); err == nil && w > 0 {
		return w
	}
	return posterWidths[SizeMedium]
}

// bookSizeSuffix maps a size class or pixel width onto Open Library's S/M/L.
func bookSizeSuffix(size string) string {
	switch size {
	case SizeSmall:
		return "S"
	case SizeMedium:
		return "M"
	case SizeLarge:
		return "L"
	}
	w, err := strconv.Atoi(size)
	switch {
	case err != nil || w <= 0:
		return "M"
	case w <= 100:
		return "S"
	case w <= 300:
		return "M"
	default:
		return "L"
	}
}
