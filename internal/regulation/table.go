// Package regulation holds the static HS code to customs regulation table.
package regulation

import "tariffagent/internal/model"

// Default is returned for every code the table does not know.
var Default = model.Regulation{
	Duty:        "Manual check required",
	Restriction: "Requires HS position analysis",
}

var builtin = map[string]model.Regulation{
	"610910": {Duty: "35%", Restriction: "Textile certificate required"},
	"847130": {Duty: "0%", Restriction: "Free circulation"},
}

// Table is immutable once built and safe for concurrent use.
type Table struct {
	entries  map[string]model.Regulation
	fallback model.Regulation
}

// New copies entries into a new table. Later maps override earlier ones.
func New(fallback model.Regulation, entries ...map[string]model.Regulation) *Table {
	t := &Table{
		entries:  make(map[string]model.Regulation),
		fallback: fallback,
	}
	for _, m := range entries {
		for code, reg := range m {
			t.entries[code] = reg
		}
	}
	return t
}

// Builtin returns the table shipped with the service, optionally extended
// with overrides (e.g. rows loaded from Postgres at startup).
func Builtin(overrides map[string]model.Regulation) *Table {
	return New(Default, builtin, overrides)
}

// Lookup is an exact match on code; unmatched codes get the default record.
func (t *Table) Lookup(code string) model.Regulation {
	reg, _ := t.Find(code)
	return reg
}

// Find is Lookup that also reports whether code matched an entry.
func (t *Table) Find(code string) (model.Regulation, bool) {
	if reg, ok := t.entries[code]; ok {
		return reg, true
	}
	return t.fallback, false
}

func (t *Table) Len() int {
	return len(t.entries)
}
