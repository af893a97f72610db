package pagination

// The public gallery paginates with plain limit/offset; callers only ever see
// clamped values.
const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 50
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 200
	// MaxSearchLimit is the tighter ceiling applied to search queries.
	MaxSearchLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Offset int
}

// Normalize clamps the limit into [1, max] and the offset to >= 0. A zero or
// negative limit falls back to the default (itself capped by max).
func Normalize(p Params, max int) Params {
	if max <= 0 {
		max = MaxLimit
	}
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > max {
		limit = max
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}
	return Params{Limit: limit, Offset: offset}
}
