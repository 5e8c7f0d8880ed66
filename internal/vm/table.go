package vm

// Table is an open-addressing hash table with linear probing and
// tombstone deletion, grounded on original_source/table.c. Get/Set/Delete
// key by *ObjString identity (module globals, class members); FindString
// keys by content instead, which is what lets InternString use this same
// type as the interned-string table.
type Table struct {
	entries []tableEntry
	count   int // live entries + tombstones, used against the load factor
}

type tableEntry struct {
	key   *ObjString // nil: never used; present+empty val: tombstone
	value Value
	used  bool
}

const tableMaxLoad = 0.75

func NewTable() *Table {
	return &Table{}
}

func (t *Table) Get(key *ObjString) (Value, bool) {
	if len(t.entries) == 0 {
		return Value{}, false
	}
	e := t.find(key)
	if e.key == nil {
		return Value{}, false
	}
	return e.value, true
}

func (t *Table) Set(key *ObjString, value Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*tableMaxLoad {
		t.grow()
	}
	e := t.find(key)
	isNew := e.key == nil
	if isNew && e.value.Type != ValEmpty {
		t.count++
	}
	e.key = key
	e.value = value
	e.used = true
	return isNew
}

func (t *Table) Delete(key *ObjString) bool {
	if len(t.entries) == 0 {
		return false
	}
	e := t.find(key)
	if e.key == nil {
		return false
	}
	e.key = nil
	e.value = Empty() // tombstone marker
	return true
}

func (t *Table) find(key *ObjString) *tableEntry {
	cap := len(t.entries)
	idx := int(key.Hash) % cap
	var tombstone *tableEntry
	for {
		e := &t.entries[idx]
		if !e.used {
			if tombstone != nil {
				return tombstone
			}
			return e
		}
		if e.key == nil {
			if tombstone == nil {
				tombstone = e
			}
		} else if e.key == key {
			return e
		}
		idx = (idx + 1) % cap
	}
}

func (t *Table) grow() {
	newCap := len(t.entries) * 2
	if newCap < 8 {
		newCap = 8
	}
	old := t.entries
	t.entries = make([]tableEntry, newCap)
	t.count = 0
	for _, e := range old {
		if e.used && e.key != nil {
			t.Set(e.key, e.value)
		}
	}
}

// Each iterates over every live (non-tombstone) entry. Used by the GC to
// mark module globals and by IMPORT to copy a module's globals into the
// value it yields.
func (t *Table) Each(fn func(key *ObjString, val Value)) {
	for _, e := range t.entries {
		if e.used && e.key != nil {
			fn(e.key, e.value)
		}
	}
}

// FindString looks up an already-interned string by content and hash,
// grounded on original_source/hashtable.c's hashtable_find_string. Unlike
// find (keyed by *ObjString identity, for Get/Set/Delete), this compares
// content so a freshly seen string literal can discover whether an
// equivalent ObjString is already interned.
func (t *Table) FindString(s string, hash uint32) *ObjString {
	if len(t.entries) == 0 {
		return nil
	}
	idx := int(hash) % len(t.entries)
	for {
		e := &t.entries[idx]
		if e.key == nil && !e.used {
			return nil
		}
		if e.key != nil && e.key.Hash == hash && e.key.Value == s {
			return e.key
		}
		idx = (idx + 1) % len(t.entries)
	}
}

// RemoveWhite drops every entry whose key is no longer marked, grounded on
// original_source/hashtable.c's hashtable_remove_white: the interned-string
// table only weakly references its keys, so a string the last GC pass
// didn't reach through any other root is dropped here instead of kept
// alive forever.
func (t *Table) RemoveWhite(isMarked func(*ObjString) bool) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.key != nil && !isMarked(e.key) {
			e.key = nil
			e.value = Empty()
		}
	}
}
