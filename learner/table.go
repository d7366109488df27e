package learner

// Table maps a state key and an action key to a learned value. Missing
// entries read as zero.
type Table map[string]map[string]float64

func NewTable() Table {
	return make(Table)
}

func (t Table) Get(state, action string) float64 {
	return t[state][action]
}

func (t Table) Set(state, action string, value float64) {
	row, ok := t[state]
	if !ok {
		row = make(map[string]float64)
		t[state] = row
	}
	row[action] = value
}

// Len returns the number of stored (state, action) entries.
func (t Table) Len() int {
	n := 0
	for _, row := range t {
		n += len(row)
	}
	return n
}

// States returns the number of distinct state keys.
func (t Table) States() int {
	return len(t)
}

func (t Table) Clone() Table {
	c := make(Table, len(t))
	for state, row := range t {
		r := make(map[string]float64, len(row))
		for action, v := range row {
			r[action] = v
		}
		c[state] = r
	}
	return c
}
