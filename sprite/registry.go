package sprite

// Table holds indexed sheets by slot.
type Table struct {
	sheets []*Sheet
}

// Add stores s in the next free slot and returns it.
func (t *Table) Add(s *Sheet) (int, error) {
	if len(t.sheets) >= MaxSheets {
		return -1, ErrTableFull
	}
	t.sheets = append(t.sheets, s)
	return len(t.sheets) - 1, nil
}

// Sheet returns the sheet in slot i, or nil.
func (t *Table) Sheet(i int) *Sheet {
	if i < 0 || i >= len(t.sheets) {
		return nil
	}
	return t.sheets[i]
}

// Len returns the number of sheets stored.
func (t *Table) Len() int {
	return len(t.sheets)
}

// Full reports whether no more sheets can be added.
func (t *Table) Full() bool {
	return len(t.sheets) >= MaxSheets
}

type entry struct {
	name  string
	index int
}

// Registry maps sheet names to Table slots. Names aren't required to be
// unique; lookups return the first registered.
type Registry struct {
	entries []entry
}

// Register records name for slot index. It returns false once MaxSheets
// names are registered.
func (r *Registry) Register(name string, index int) bool {
	if len(r.entries) >= MaxSheets {
		return false
	}
	r.entries = append(r.entries, entry{name, index})
	return true
}

// Lookup returns the slot registered for name, or -1.
func (r *Registry) Lookup(name string) int {
	for _, e := range r.entries {
		if e.name == name {
			return e.index
		}
	}
	return -1
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	return len(r.entries)
}

// At returns the i'th registration.
func (r *Registry) At(i int) (name string, index int, ok bool) {
	if i < 0 || i >= len(r.entries) {
		return "", -1, false
	}
	return r.entries[i].name, r.entries[i].index, true
}

// Table returns the name to slot table exposed to scripts. When a name is
// registered more than once the first registration is kept.
func (r *Registry) Table() map[string]int {
	t := make(map[string]int, len(r.entries))
	for _, e := range r.entries {
		if _, ok := t[e.name]; !ok {
			t[e.name] = e.index
		}
	}
	return t
}
