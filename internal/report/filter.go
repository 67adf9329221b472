package report

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"gorm.io/gorm"
)

// DateField selects which column a report's date range applies to.
type DateField string

const (
	DateFieldInicio   DateField = "data_inicio"
	DateFieldPrazo    DateField = "prazo_final"
	DateFieldSuporte  DateField = "data_suporte"
	DateFieldCadastro DateField = "data_cadastro"
)

// Filter is the resolved form of a report's optional query criteria.
// Zero values mean "not constrained".
type Filter struct {
	Status    string
	ClienteID uint
	From      *time.Time
	To        *time.Time
	Field     DateField
}

const dateLayout = "2006-01-02"

// ParseFilter resolves the query parameters of a report request into a
// Filter over the given date field. Both parameter spellings used by the
// frontend are accepted (clienteId/cliente_id, dataInicial/dataInicio,
// dataFinal/dataFim). Malformed dates fail with ErrInvalidArgument;
// unknown status values are accepted and simply match nothing. Only
// reports over status-carrying records honor the status parameter;
// everywhere else a stray status is ignored rather than rejected,
// matching the permissive handling of the other filters.
func ParseFilter(q url.Values, field DateField, withStatus bool) (Filter, error) {
	f := Filter{Field: field}

	if status := q.Get("status"); withStatus && status != "" && status != "all" && status != "todos" {
		f.Status = status
	}

	if raw := firstParam(q, "clienteId", "cliente_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return Filter{}, fmt.Errorf("%w: cliente id %q", ErrInvalidArgument, raw)
		}
		f.ClienteID = uint(id)
	}

	if raw := firstParam(q, "dataInicial", "dataInicio"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return Filter{}, err
		}
		f.From = &t
	}

	if raw := firstParam(q, "dataFinal", "dataFim"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return Filter{}, err
		}
		// The final day is inclusive through end-of-day.
		eod := endOfDay(t)
		f.To = &eod
	}

	return f, nil
}

// Scope expresses the filter as a GORM query constraint. The date column
// comes from the DateField constants, never from caller input.
func (f Filter) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Status != "" {
			status := f.Status
			if canonical, ok := DefaultTaxonomy().Resolve(status); ok {
				status = string(canonical)
			}
			db = db.Where("status = ?", status)
		}
		if f.ClienteID != 0 {
			db = db.Where("cliente_id = ?", f.ClienteID)
		}
		if f.Field != "" {
			if f.From != nil {
				db = db.Where(string(f.Field)+" >= ?", *f.From)
			}
			if f.To != nil {
				db = db.Where(string(f.Field)+" <= ?", *f.To)
			}
		}
		return db
	}
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidArgument, raw)
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999_000_000, t.Location())
}

func firstParam(q url.Values, names ...string) string {
	for _, name := range names {
		if v := q.Get(name); v != "" {
			return v
		}
	}
	return ""
}
