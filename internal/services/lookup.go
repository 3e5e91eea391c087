package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/broomstones/loaners/internal/models"
)

const (
	lookupMinChars = 2
	lookupLimit    = 10
)

// Lookup finds kids whose name contains q (case-insensitive) and attaches
// each kid's open loans, newest first. Queries under two characters return
// an empty list without touching the store.
func (s *Store) Lookup(ctx context.Context, q string) ([]models.LookupResult, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < lookupMinChars {
		return []models.LookupResult{}, nil
	}
	like := "%" + escapeLike(models.FoldName(q)) + "%"

	var kids []models.KidSummary
	if err := s.conn(ctx).Model(&models.Kid{}).
		Select("id, name, shoe_size").
		Where(`name_search LIKE ? ESCAPE '\'`, like).
		Order("name_search asc, id asc").
		Limit(lookupLimit).
		Scan(&kids).Error; err != nil {
		return nil, err
	}
	if len(kids) == 0 {
		return []models.LookupResult{}, nil
	}

	// One query for every matched kid's open loans.
	ids := make([]uint, 0, len(kids))
	for _, k := range kids {
		ids = append(ids, k.ID)
	}
	var loans []models.OpenLoan
	if err := s.conn(ctx).Table("checkouts c").
		Select(`c.id, c.kid_id, c.checked_out_at,
			e.type AS equipment_type, e.size AS equipment_size, e.brand AS equipment_brand`).
		Joins("JOIN equipment e ON e.id = c.equipment_id").
		Where("c.kid_id IN ? AND c.returned_at IS NULL", ids).
		Order("c.checked_out_at desc, c.id desc").
		Scan(&loans).Error; err != nil {
		return nil, err
	}
	byKid := make(map[uint][]models.OpenLoan, len(kids))
	for _, l := range loans {
		byKid[l.KidID] = append(byKid[l.KidID], l)
	}

	out := make([]models.LookupResult, 0, len(kids))
	for _, k := range kids {
		co := byKid[k.ID]
		if co == nil {
			co = []models.OpenLoan{}
		}
		out = append(out, models.LookupResult{ID: k.ID, Name: k.Name, ShoeSize: k.ShoeSize, Checkouts: co})
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
