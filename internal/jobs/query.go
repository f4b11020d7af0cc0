package jobs

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type Sort string

const (
	SortNewest     Sort = "newest"
	SortOldest     Sort = "oldest"
	SortSalaryHigh Sort = "salary-high"
	SortSalaryLow  Sort = "salary-low"
)

// ParseSort maps a query value to a Sort, falling back to newest.
func ParseSort(raw string) Sort {
	switch s := Sort(strings.TrimSpace(raw)); s {
	case SortNewest, SortOldest, SortSalaryHigh, SortSalaryLow:
		return s
	default:
		return SortNewest
	}
}

// Filter holds the optional listing criteria. Set fields are ANDed.
type Filter struct {
	ActiveOnly bool
	Keyword    string
	Category   string
	Type       string
	Experience string
	Location   string
}

type Query struct {
	Filter
	Sort  Sort
	Page  int
	Limit int
}

// Normalize fills defaults for paging and sort.
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	q.Sort = ParseSort(string(q.Sort))
	return q
}

// Offset saturates at math.MaxInt for pages far past any result set.
func (q Query) Offset() int {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// Pages is ceil(total/limit).
func Pages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}

// keywordTerms splits free text into lowercase alphanumeric terms.
func keywordTerms(keyword string) []string {
	var terms []string
	for _, field := range strings.Fields(keyword) {
		term := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return unicode.ToLower(r)
			}
			return -1
		}, field)
		if term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

// Matches applies f to a single job. Any keyword term matching title,
// description or company is enough.
func (f Filter) Matches(j Job) bool {
	if f.ActiveOnly && !j.IsActive {
		return false
	}
	if f.Category != "" && j.Category != f.Category {
		return false
	}
	if f.Type != "" && j.Type != f.Type {
		return false
	}
	if f.Experience != "" && j.Experience != f.Experience {
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(j.Location), strings.ToLower(f.Location)) {
		return false
	}
	if terms := keywordTerms(f.Keyword); len(terms) > 0 {
		text := strings.ToLower(j.Title + " " + j.Description + " " + j.Company)
		hit := false
		for _, term := range terms {
			if strings.Contains(text, term) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// SortJobs orders jobs in place. Missing salaries sort first ascending and last descending.
func SortJobs(list []Job, s Sort) {
	newer := func(a, b Job) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	}
	var less func(a, b Job) bool
	switch s {
	case SortOldest:
		less = func(a, b Job) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		}
	case SortSalaryHigh:
		less = func(a, b Job) bool {
			am, bm := a.Salary.Max, b.Salary.Max
			switch {
			case am == nil && bm == nil:
				return newer(a, b)
			case am == nil:
				return false
			case bm == nil:
				return true
			case *am != *bm:
				return *am > *bm
			}
			return newer(a, b)
		}
	case SortSalaryLow:
		less = func(a, b Job) bool {
			am, bm := a.Salary.Min, b.Salary.Min
			switch {
			case am == nil && bm == nil:
				return newer(a, b)
			case am == nil:
				return true
			case bm == nil:
				return false
			case *am != *bm:
				return *am < *bm
			}
			return newer(a, b)
		}
	default:
		less = newer
	}
	sort.SliceStable(list, func(i, j int) bool { return less(list[i], list[j]) })
}
