// Package document models the host side of a table: named containers holding
// ordered rows whose cells already exist. Rows carry a small data map and a
// label set that widgets may write to.
package document

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jask/rowmark/internal/labels"
)

// Data attribute keys written by the row selection controller.
const (
	DataIndex  = "index"
	DataMarked = "marked"
)

// Row is a single externally supplied table row.
type Row struct {
	ID     uuid.UUID
	Cells  []string
	Labels labels.Set
	data   map[string]string
}

// NewRow returns a row with a fresh random identity.
func NewRow(cells ...string) *Row {
	return NewRowWithID(uuid.New(), cells...)
}

// NewRowWithID returns a row that keeps a host-supplied identity.
func NewRowWithID(id uuid.UUID, cells ...string) *Row {
	return &Row{ID: id, Cells: append([]string(nil), cells...)}
}

// Data returns the value stored under key and whether it exists.
func (r *Row) Data(key string) (string, bool) {
	if r == nil || r.data == nil {
		return "", false
	}
	v, ok := r.data[key]
	return v, ok
}

func (r *Row) SetData(key, value string) {
	if r == nil {
		return
	}
	if r.data == nil {
		r.data = make(map[string]string)
	}
	r.data[key] = value
}

func (r *Row) DeleteData(key string) {
	if r == nil || r.data == nil {
		return
	}
	delete(r.data, key)
}

// Text joins the cells with sep.
func (r *Row) Text(sep string) string {
	if r == nil {
		return ""
	}
	return strings.Join(r.Cells, sep)
}

// Container is an ordered list of rows with an optional header.
type Container struct {
	Header []string
	rows   []*Row
}

// NewContainer returns a container holding rows in order. Nil rows are skipped.
func NewContainer(header []string, rows ...*Row) *Container {
	c := &Container{Header: append([]string(nil), header...)}
	for _, r := range rows {
		if r != nil {
			c.rows = append(c.rows, r)
		}
	}
	return c
}

// Append adds rows to the end of the container.
func (c *Container) Append(rows ...*Row) {
	for _, r := range rows {
		if r != nil {
			c.rows = append(c.rows, r)
		}
	}
}

func (c *Container) Len() int {
	if c == nil {
		return 0
	}
	return len(c.rows)
}

// Row returns the row at position i, or nil when there is none.
func (c *Container) Row(i int) *Row {
	if c == nil || i < 0 || i >= len(c.rows) {
		return nil
	}
	return c.rows[i]
}

// Rows returns the rows in order. The slice is a copy; the rows are shared.
func (c *Container) Rows() []*Row {
	if c == nil {
		return nil
	}
	return append([]*Row(nil), c.rows...)
}

// IndexOf returns the position of the row with id, or -1.
func (c *Container) IndexOf(id uuid.UUID) int {
	if c == nil {
		return -1
	}
	for i, r := range c.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Document is a registry of containers addressed by identifier.
type Document struct {
	containers map[string]*Container
	order      []string
}

func New() *Document {
	return &Document{containers: make(map[string]*Container)}
}

// Add registers c under id, replacing any container already there.
func (d *Document) Add(id string, c *Container) {
	id = strings.TrimSpace(id)
	if d == nil || id == "" || c == nil {
		return
	}
	if _, exists := d.containers[id]; !exists {
		d.order = append(d.order, id)
	}
	d.containers[id] = c
}

// Container resolves id. Unknown identifiers return nil.
func (d *Document) Container(id string) *Container {
	if d == nil {
		return nil
	}
	return d.containers[strings.TrimSpace(id)]
}

// IDs returns the registered identifiers in registration order.
func (d *Document) IDs() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.order...)
}
