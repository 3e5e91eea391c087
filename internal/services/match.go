package services

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/broomstones/loaners/internal/models"
)

// Shortage compares, for one shoe size, the kids needing it with the pairs on the shelf.
type Shortage struct {
	Size      string `json:"size"`
	Need      int64  `json:"need"`
	Available int64  `json:"available"`
	Shortage  int64  `json:"shortage"`
	Surplus   int64  `json:"surplus"`
}

// Shortages returns one row per size with demand. Shortage is need minus
// available, floored at zero; Surplus is the reverse.
func Shortages(demand []ShoeSizeCount, supply []SizeCount) []Shortage {
	avail := make(map[string]int64, len(supply))
	for _, s := range supply {
		avail[s.Size] += s.Count
	}
	out := make([]Shortage, 0, len(demand))
	for _, d := range demand {
		a := avail[d.ShoeSize]
		row := Shortage{Size: d.ShoeSize, Need: d.Count, Available: a}
		if d.Count > a {
			row.Shortage = d.Count - a
		} else {
			row.Surplus = a - d.Count
		}
		out = append(out, row)
	}
	return out
}

// MatchRow pairs the kids wearing one shoe size with the available shoes of that size.
type MatchRow struct {
	Size      string
	Kids      []models.KidSummary
	Available []models.Equipment
	Shortage  int
}

// MatchBoard builds the per-size matching view: every size that has either a
// kid wearing it or an available pair of shoes, in size order.
func (s *Store) MatchBoard(ctx context.Context) ([]MatchRow, error) {
	var kids []models.KidSummary
	if err := s.conn(ctx).Model(&models.Kid{}).
		Select("id, name, shoe_size").
		Where("shoe_size <> ''").
		Order("name_search asc, id asc").
		Scan(&kids).Error; err != nil {
		return nil, err
	}
	var shoes []models.Equipment
	if err := s.conn(ctx).
		Where("type = ? AND status = ? AND size <> ''", models.TypeShoes, models.StatusAvailable).
		Order("id asc").
		Find(&shoes).Error; err != nil {
		return nil, err
	}

	rows := map[string]*MatchRow{}
	get := func(sz string) *MatchRow {
		r, ok := rows[sz]
		if !ok {
			r = &MatchRow{Size: sz}
			rows[sz] = r
		}
		return r
	}
	for _, k := range kids {
		r := get(k.ShoeSize)
		r.Kids = append(r.Kids, k)
	}
	for _, e := range shoes {
		r := get(e.Size)
		r.Available = append(r.Available, e)
	}

	out := make([]MatchRow, 0, len(rows))
	for _, r := range rows {
		if n := len(r.Kids) - len(r.Available); n > 0 {
			r.Shortage = n
		}
		out = append(out, *r)
	}
	sortBySize(out, func(r MatchRow) string { return r.Size })
	return out, nil
}

// Sizes returns the distinct sizes of a match board, in display order.
func Sizes(rows []MatchRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Size)
	}
	return out
}

// FilterSize keeps only the row for size. An empty size keeps everything.
func FilterSize(rows []MatchRow, size string) []MatchRow {
	if size == "" {
		return rows
	}
	for _, r := range rows {
		if r.Size == size {
			return []MatchRow{r}
		}
	}
	return []MatchRow{}
}

// sortBySize orders numeric sizes numerically ("5" < "5.5" < "10") ahead of
// free-text sizes, which sort alphabetically.
func sortBySize[T any](items []T, size func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return lessSize(size(items[i]), size(items[j]))
	})
}

func lessSize(a, b string) bool {
	fa, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	fb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	switch {
	case errA == nil && errB == nil:
		if fa != fb {
			return fa < fb
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return strings.ToLower(a) < strings.ToLower(b)
	}
}
