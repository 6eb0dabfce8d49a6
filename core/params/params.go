package params

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type QueryParams struct {
	PageNumber int
	PageSize   int
}

// New normalizes raw pagination values to sane bounds.
func New(pageNumber, pageSize int) QueryParams {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return QueryParams{PageNumber: pageNumber, PageSize: pageSize}
}

func (p QueryParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}
