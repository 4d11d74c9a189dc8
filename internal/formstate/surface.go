// Package formstate maps a profile record to and from an editable surface of named
// fields, tag lists and repeated row groups.
package formstate

type Field struct {
	ID       string `json:"id"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled,omitempty"`
}

type fieldList struct {
	fields []Field
	index  map[string]int
}

func (l *fieldList) lookup(id string) (*Field, bool) {
	i, ok := l.index[id]
	if !ok {
		return nil, false
	}
	return &l.fields[i], true
}

func (l *fieldList) set(id, value string) {
	if f, ok := l.lookup(id); ok {
		f.Value = value
		return
	}
	if l.index == nil {
		l.index = make(map[string]int)
	}
	l.index[id] = len(l.fields)
	l.fields = append(l.fields, Field{ID: id, Value: value})
}

func (l *fieldList) get(id string) (string, bool) {
	f, ok := l.lookup(id)
	if !ok {
		return "", false
	}
	return f.Value, true
}

func (l *fieldList) setDisabled(id string, disabled bool) {
	if _, ok := l.lookup(id); !ok {
		l.set(id, "")
	}
	f, _ := l.lookup(id)
	f.Disabled = disabled
}

func (l *fieldList) disabled(id string) bool {
	f, ok := l.lookup(id)
	return ok && f.Disabled
}

func (l *fieldList) snapshot() []Field {
	out := make([]Field, len(l.fields))
	copy(out, l.fields)
	return out
}

// Row is one entry of a repeated group, e.g. a single experience block.
type Row struct {
	fieldList
}

func (r *Row) Set(id, value string) {
	r.set(id, value)
}

func (r *Row) Get(id string) (string, bool) {
	return r.get(id)
}

func (r *Row) Value(id string) string {
	v, _ := r.get(id)
	return v
}

func (r *Row) Disable(id string) {
	r.setDisabled(id, true)
}

func (r *Row) Enable(id string) {
	r.setDisabled(id, false)
}

func (r *Row) IsDisabled(id string) bool {
	return r.disabled(id)
}

func (r *Row) Fields() []Field {
	return r.snapshot()
}

// Surface is the live editing state. It is owned by one editor and is not safe for
// concurrent use.
type Surface struct {
	fieldList
	tags   map[string][]string
	groups map[string][]*Row
}

func NewSurface() *Surface {
	return &Surface{
		tags:   make(map[string][]string),
		groups: make(map[string][]*Row),
	}
}

func (s *Surface) Set(id, value string) {
	s.set(id, value)
}

func (s *Surface) Get(id string) (string, bool) {
	return s.get(id)
}

func (s *Surface) Value(id string) string {
	v, _ := s.get(id)
	return v
}

func (s *Surface) Disable(id string) {
	s.setDisabled(id, true)
}

func (s *Surface) Enable(id string) {
	s.setDisabled(id, false)
}

func (s *Surface) IsDisabled(id string) bool {
	return s.disabled(id)
}

func (s *Surface) Has(id string) bool {
	_, ok := s.lookup(id)
	return ok
}

// Fields returns the scalar fields in the order they were first written.
func (s *Surface) Fields() []Field {
	return s.snapshot()
}

func (s *Surface) AppendRow(group string) *Row {
	r := &Row{}
	s.groups[group] = append(s.groups[group], r)
	return r
}

func (s *Surface) Rows(group string) []*Row {
	return s.groups[group]
}

func (s *Surface) Row(group string, i int) (*Row, bool) {
	rows := s.groups[group]
	if i < 0 || i >= len(rows) {
		return nil, false
	}
	return rows[i], true
}

func (s *Surface) RemoveRow(group string, i int) bool {
	rows := s.groups[group]
	if i < 0 || i >= len(rows) {
		return false
	}
	s.groups[group] = append(rows[:i], rows[i+1:]...)
	return true
}

func (s *Surface) ClearGroup(group string) {
	delete(s.groups, group)
}

func (s *Surface) AddTag(container, tag string) {
	s.tags[container] = append(s.tags[container], tag)
}

func (s *Surface) Tags(container string) []string {
	out := make([]string, len(s.tags[container]))
	copy(out, s.tags[container])
	return out
}

func (s *Surface) ClearTags(container string) {
	delete(s.tags, container)
}

// Snapshot is the wire form of a Surface.
type Snapshot struct {
	Fields []Field              `json:"fields"`
	Tags   map[string][]string  `json:"tags"`
	Groups map[string][][]Field `json:"groups"`
}

func (s *Surface) Snapshot() Snapshot {
	snap := Snapshot{
		Fields: s.snapshot(),
		Tags:   make(map[string][]string, len(s.tags)),
		Groups: make(map[string][][]Field, len(s.groups)),
	}
	for k := range s.tags {
		snap.Tags[k] = s.Tags(k)
	}
	for k, rows := range s.groups {
		out := make([][]Field, len(rows))
		for i, r := range rows {
			out[i] = r.Fields()
		}
		snap.Groups[k] = out
	}
	return snap
}

func FromSnapshot(snap Snapshot) *Surface {
	s := NewSurface()
	for _, f := range snap.Fields {
		s.Set(f.ID, f.Value)
		if f.Disabled {
			s.Disable(f.ID)
		}
	}
	for k, tags := range snap.Tags {
		for _, t := range tags {
			s.AddTag(k, t)
		}
	}
	for k, rows := range snap.Groups {
		for _, fields := range rows {
			r := s.AppendRow(k)
			for _, f := range fields {
				r.Set(f.ID, f.Value)
				if f.Disabled {
					r.Disable(f.ID)
				}
			}
		}
	}
	return s
}
