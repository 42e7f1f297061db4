package types

// PaginationMode selects how a PageSpec is turned into an offset and fetch size
type PaginationMode string

const (
	PaginationPageBased   PaginationMode = "page"
	PaginationSkipAndTake PaginationMode = "skip_take"
)

const (
	// DefaultPageSize is used when neither take nor a configured size is given
	DefaultPageSize = 20
	// DefaultMaxPageSize caps fetch sizes
	DefaultMaxPageSize = 100
)

// PageSpec is the caller-owned page request. Nil fields are absent.
type PageSpec struct {
	Page           *int
	Skip           *int
	Take           *int
	SortByTermRank bool
}

// PagingOptions configures window computation
type PagingOptions struct {
	Mode            PaginationMode
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultPagingOptions returns page-based paging with default sizes
func DefaultPagingOptions() PagingOptions {
	return PagingOptions{
		Mode:            PaginationPageBased,
		DefaultPageSize: DefaultPageSize,
		MaxPageSize:     DefaultMaxPageSize,
	}
}

// Window is a resolved OFFSET/FETCH pair plus the page metadata it implies
type Window struct {
	Offset   int
	Fetch    int
	Page     int
	PageSize int
}

func (o PagingOptions) normalized() PagingOptions {
	if o.Mode == "" {
		o.Mode = PaginationPageBased
	}
	if o.MaxPageSize <= 0 {
		o.MaxPageSize = DefaultMaxPageSize
	}
	if o.DefaultPageSize <= 0 {
		o.DefaultPageSize = DefaultPageSize
	}
	if o.DefaultPageSize > o.MaxPageSize {
		o.DefaultPageSize = o.MaxPageSize
	}
	return o
}

// Window resolves spec into an offset and fetch size.
//
// SkipAndTake: offset is skip (or 0), fetch is take (or the max page size)
// clamped to the max page size. PageBased: the page size is take (or the
// default page size), the page is Page or skip/pageSize, and the offset is
// page*pageSize.
func (o PagingOptions) Window(spec PageSpec) Window {
	o = o.normalized()

	if o.Mode == PaginationSkipAndTake {
		offset := nonNegative(spec.Skip)
		fetch := o.MaxPageSize
		if spec.Take != nil && *spec.Take > 0 {
			fetch = clamp(*spec.Take, 1, o.MaxPageSize)
		}
		return Window{
			Offset:   offset,
			Fetch:    fetch,
			Page:     offset / fetch,
			PageSize: fetch,
		}
	}

	size := o.DefaultPageSize
	if spec.Take != nil && *spec.Take > 0 {
		size = clamp(*spec.Take, 1, o.MaxPageSize)
	}

	page := nonNegative(spec.Page)
	if spec.Page == nil {
		page = nonNegative(spec.Skip) / size
	}

	return Window{
		Offset:   page * size,
		Fetch:    size,
		Page:     page,
		PageSize: size,
	}
}

// Ptr returns a pointer to v, for building PageSpecs inline
func Ptr[T any](v T) *T {
	return &v
}

func nonNegative(v *int) int {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
