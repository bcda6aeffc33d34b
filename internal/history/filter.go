package history

import (
	"net/url"
	"strings"
	"time"
)

// Sort directions.
const (
	Asc  = "ASC"
	Desc = "DESC"
)

// Filter narrows a history query. Dates are raw YYYY-MM-DD strings as typed
// by the user; invalid ones are ignored and reported in Result.DateErrors.
type Filter struct {
	Search    string
	StartDate string
	EndDate   string
	Size      string
	Sort      string
}

// FilterFromQuery reads search, start_date, end_date, size and sort.
func FilterFromQuery(q url.Values) Filter {
	return Filter{
		Search:    strings.TrimSpace(q.Get("search")),
		StartDate: strings.TrimSpace(q.Get("start_date")),
		EndDate:   strings.TrimSpace(q.Get("end_date")),
		Size:      strings.TrimSpace(q.Get("size")),
		Sort:      q.Get("sort"),
	}
}

// Direction is the normalised sort order; anything but ASC means DESC.
func (f Filter) Direction() string {
	if strings.ToUpper(strings.TrimSpace(f.Sort)) == Asc {
		return Asc
	}
	return Desc
}

// bounds is the parsed date range: sale_date >= from AND sale_date < until.
type bounds struct {
	from, until string
	errs        []string
}

func (f Filter) bounds() bounds {
	var b bounds
	if f.StartDate != "" {
		if d, err := time.Parse(time.DateOnly, f.StartDate); err == nil {
			b.from = d.Format(time.DateOnly)
		} else {
			b.errs = append(b.errs, "invalid start date "+f.StartDate)
		}
	}
	if f.EndDate != "" {
		if d, err := time.Parse(time.DateOnly, f.EndDate); err == nil {
			b.until = d.AddDate(0, 0, 1).Format(time.DateOnly)
		} else {
			b.errs = append(b.errs, "invalid end date "+f.EndDate)
		}
	}
	return b
}
