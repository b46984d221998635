package entry

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mediadiet/mediadiet/internal/domain"
)

// Paging defaults.
const (
	DefaultTake = 30
	MaxTake     = 100
	// MaxSkip bounds the offset so each source query stays small.
	MaxSkip     = 10000
)

// SortDirection orders entries newest-first (desc) or oldest-first (asc).
type SortDirection string

const (
	SortDesc SortDirection = "desc"
	SortAsc  SortDirection = "asc"
)

// ParseSort accepts "asc" or "desc"; empty means desc.
func ParseSort(s string) (SortDirection, error) {
	switch SortDirection(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortDesc:
		return SortDesc, nil
	case SortAsc:
		return SortAsc, nil
	default:
		return "", fmt.Errorf("unknown sort direction %q", s)
	}
}

// Filter selects media types. An empty filter selects all of them.
type Filter []domain.MediaType

// ParseFilter parses media type names. Values may be comma separated.
func ParseFilter(values []string) (Filter, error) {
	var f Filter
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			m, err := domain.ParseMediaType(part)
			if err != nil {
				return nil, err
			}
			f = append(f, m)
		}
	}
	return f, nil
}

// Types returns the selected media types in canonical order.
func (f Filter) Types() []domain.MediaType {
	if len(f) == 0 {
		return domain.AllMediaTypes
	}
	out := make([]domain.MediaType, 0, len(domain.AllMediaTypes))
	for _, m := range domain.AllMediaTypes {
		if slices.Contains(f, m) {
			out = append(out, m)
		}
	}
	return out
}

// Includes reports whether m is selected.
func (f Filter) Includes(m domain.MediaType) bool {
	return len(f) == 0 || slices.Contains(f, m)
}

// Page is an offset window.
type Page struct {
	Skip int
	Take int
}

// Normalized clamps the window: skip stays within [0, MaxSkip], take
// defaults to DefaultTake and never exceeds MaxTake.
func (p Page) Normalized() Page {
	p.Skip = min(max(p.Skip, 0), MaxSkip)
	if p.Take <= 0 {
		p.Take = DefaultTake
	}
	if p.Take > MaxTake {
		p.Take = MaxTake
	}
	return p
}

// Limit is how many leading rows each source must supply so that the merged
// window, plus one row to detect a following page, is exact.
func (p Page) Limit() int {
	p = p.Normalized()
	return p.Skip + p.Take + 1
}

// Result is one page of an ordered list.
type Result[T any] struct {
	Items   []T  `json:"items"`
	Skip    int  `json:"skip"`
	Take    int  `json:"take"`
	HasMore bool `json:"has_more"`
}

// Paginate cuts the page window out of an already ordered slice.
func Paginate[T any](sorted []T, p Page) Result[T] {
	p = p.Normalized()
	start := min(p.Skip, len(sorted))
	end := start + min(p.Take, len(sorted)-start)
	return Result[T]{
		Items:   slices.Clone(sorted[start:end]),
		Skip:    p.Skip,
		Take:    p.Take,
		HasMore: len(sorted)-start > p.Take,
	}
}

// Compare orders entries oldest-first by createdAt, then consumedDateTime,
// then id. A nil createdAt is older than any time.
func Compare(a, b Entry) int {
	if c := compareOptionalTime(a.CreatedAt, b.CreatedAt); c != 0 {
		return c
	}
	if c := a.ConsumedDateTime.Compare(b.ConsumedDateTime); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func compareOptionalTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Compare(*b)
	}
}

// Sort orders entries in place. Desc reverses every key together.
func Sort(entries []Entry, dir SortDirection) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if dir == SortAsc {
			return Compare(a, b)
		}
		return Compare(b, a)
	})
}

// Merge combines per-source lists, each already holding that source's
// leading rows, into one globally ordered page.
func Merge(sources [][]Entry, dir SortDirection, p Page) Result[Entry] {
	merged := slices.Concat(sources...)
	Sort(merged, dir)
	return Paginate(merged, p)
}

// Aggregate filters, orders and paginates an in-memory set of entries.
func Aggregate(entries []Entry, filter Filter, dir SortDirection, p Page) Result[Entry] {
	selected := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if filter.Includes(e.MediaType) {
			selected = append(selected, e)
		}
	}
	Sort(selected, dir)
	return Paginate(selected, p)
}

// SortSaved orders saved items by createdAt then id.
func SortSaved(items []SavedEntry, dir SortDirection) {
	slices.SortStableFunc(items, func(a, b SavedEntry) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if dir == SortAsc {
			return c
		}
		return -c
	})
}
