package domain

// EntryDetails carries the media-specific part of a new entry. The concrete
// types are MovieEntry, BookEntry and TvEntry.
type EntryDetails interface {
	MediaType() MediaType
	Flags() MediaFlags
	isEntryDetails()
}

// MovieEntry is the movie-specific part of an entry.
type MovieEntry struct {
	InTheater bool
	OnPlane   bool
}

// BookEntry is the book-specific part of an entry.
type BookEntry struct {
	Audiobook bool
	// FirstPublishedYear overrides the catalog's year when the catalog has none.
	FirstPublishedYear string
}

// TvEntry is the TV-specific part of an entry. The show id is the entry's
// catalog id and SeasonID picks the season that becomes the media item.
type TvEntry struct {
	SeasonID string
	OnPlane  bool
}

func (MovieEntry) MediaType() MediaType { return MediaTypeMovie }
func (BookEntry) MediaType() MediaType  { return MediaTypeBook }
func (TvEntry) MediaType() MediaType    { return MediaTypeTV }

func (e MovieEntry) Flags() MediaFlags {
	return MediaFlags{InTheater: &e.InTheater, OnPlane: &e.OnPlane}
}

func (e BookEntry) Flags() MediaFlags {
	return MediaFlags{Audiobook: &e.Audiobook}
}

func (e TvEntry) Flags() MediaFlags {
	return MediaFlags{OnPlane: &e.OnPlane}
}

func (MovieEntry) isEntryDetails() {}
func (BookEntry) isEntryDetails()  {}
func (TvEntry) isEntryDetails()    {}
