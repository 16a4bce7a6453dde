package startlist

// Person is one athlete's identity as listed in the Lynx people file.
type Person struct {
	FirstName string
	LastName  string
	Club      string
}

// PeopleIndex maps athlete numbers to identity fields built from the
// Lynx companion people file. It is a derived join input held in memory
// for the duration of one import, never persisted.
type PeopleIndex struct {
	byNum map[string]Person
}

// BuildPeopleIndex parses the comma-delimited people file, rows shaped
// [athleteNum, lastName, firstName, club, ...]. Rows with fewer than
// four fields or an empty athlete number are skipped; that is absent
// data, not an error. Empty input yields an empty index.
func BuildPeopleIndex(text string) PeopleIndex {
	idx := PeopleIndex{byNum: make(map[string]Person)}
	rows := NewRowScanner(text, ',')
	for rows.Scan() {
		row := rows.Row()
		if len(row) < 4 {
			continue
		}
		num := field(row, 0)
		if num == "" {
			continue
		}
		idx.byNum[num] = Person{
			LastName:  field(row, 1),
			FirstName: field(row, 2),
			Club:      field(row, 3),
		}
	}
	return idx
}

// Lookup returns the person for an athlete number. A miss returns the
// zero Person, so downstream name and club fields default to empty
// strings.
func (idx PeopleIndex) Lookup(athleteNum string) Person {
	return idx.byNum[athleteNum]
}

// Len reports how many athletes the index holds.
func (idx PeopleIndex) Len() int {
	return len(idx.byNum)
}
