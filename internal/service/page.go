package service

// Default and maximum page sizes for list endpoints.
const (
	DefaultMemberLimit  = 50
	DefaultHistoryLimit = 100
	MaxPageLimit        = 1000
)

// Page is an offset/limit window over a newest-first listing.
type Page struct {
	Skip  int
	Limit int
}

func (p Page) validate() error {
	if p.Skip < 0 {
		return fail(ErrValidation, "skip must not be negative")
	}
	if p.Limit < 1 || p.Limit > MaxPageLimit {
		return fail(ErrValidation, "limit must be between 1 and 1000")
	}
	return nil
}
