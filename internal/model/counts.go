package model

// CountMap is an occurrence counter that remembers first-seen key order.
// Report output must be stable across identical runs, so plain Go maps
// are not enough on their own.
type CountMap struct {
	keys   []string
	counts map[string]int64
}

// NewCountMap returns an empty CountMap.
func NewCountMap() *CountMap {
	return &CountMap{counts: make(map[string]int64)}
}

// Add increments the count for key by n, registering the key on first use.
func (m *CountMap) Add(key string, n int64) {
	if _, ok := m.counts[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.counts[key] += n
}

// Get returns the count for key, zero if the key was never added.
func (m *CountMap) Get(key string) int64 {
	return m.counts[key]
}

// Keys returns the keys in first-seen order. The returned slice is shared;
// callers must not modify it.
func (m *CountMap) Keys() []string {
	return m.keys
}

// Len returns the number of distinct keys.
func (m *CountMap) Len() int {
	return len(m.keys)
}

// Total returns the sum of all counts.
func (m *CountMap) Total() int64 {
	var t int64
	for _, v := range m.counts {
		t += v
	}
	return t
}

// Matrix is the client×service occurrence matrix: an ordered mapping from
// client to an ordered CountMap of that client's services.
type Matrix struct {
	clients []string
	cells   map[string]*CountMap
}

// NewMatrix returns an empty Matrix.
func NewMatrix() *Matrix {
	return &Matrix{cells: make(map[string]*CountMap)}
}

// Add increments the (client, service) cell by n.
func (x *Matrix) Add(client, service string, n int64) {
	row, ok := x.cells[client]
	if !ok {
		row = NewCountMap()
		x.cells[client] = row
		x.clients = append(x.clients, client)
	}
	row.Add(service, n)
}

// Clients returns client keys in first-seen order.
func (x *Matrix) Clients() []string {
	return x.clients
}

// Row returns the service counts for client, nil if the client is absent.
func (x *Matrix) Row(client string) *CountMap {
	return x.cells[client]
}

// AggregateCounts holds the three flat occurrence counts plus the
// client-service matrix, all preserving first-seen key order. Keys are the
// exact trimmed strings from CleanRecords; no case folding is applied, so
// "Home Health" and "home health" count separately.
type AggregateCounts struct {
	Clients   *CountMap
	Employees *CountMap
	Services  *CountMap
	Matrix    *Matrix
}

// NewAggregateCounts returns an all-empty AggregateCounts.
func NewAggregateCounts() *AggregateCounts {
	return &AggregateCounts{
		Clients:   NewCountMap(),
		Employees: NewCountMap(),
		Services:  NewCountMap(),
		Matrix:    NewMatrix(),
	}
}
