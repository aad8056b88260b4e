package filter

// Directive is one compiled element of a filter mapping: a Predicate, GroupBy,
// OrderBy or PageWindow.
type Directive interface {
	directive()
}

// Predicate compares a column against a value.
// For In and NotIn, Value holds a []any.
type Predicate struct {
	Column   string
	Operator Operator
	Value    any
}

// GroupBy groups the result by one column.
type GroupBy struct {
	Column string
}

// OrderBy sorts the result by one column. Direction is "ASC" or "DESC".
type OrderBy struct {
	Column    string
	Direction string
}

// PageWindow is a LIMIT offset,limit window.
type PageWindow struct {
	Offset int
	Limit  int
}

func (Predicate) directive()  {}
func (GroupBy) directive()    {}
func (OrderBy) directive()    {}
func (PageWindow) directive() {}

// Compiled is the result of compiling a filter mapping.
type Compiled struct {
	Predicates []Predicate
	Group      *GroupBy
	Order      *OrderBy
	Window     *PageWindow
}

// Directives returns the directives in rendering order:
// predicates, then grouping, ordering and the page window.
func (c *Compiled) Directives() []Directive {
	if c == nil {
		return nil
	}
	out := make([]Directive, 0, len(c.Predicates)+3)
	for _, p := range c.Predicates {
		out = append(out, p)
	}
	if c.Group != nil {
		out = append(out, *c.Group)
	}
	if c.Order != nil {
		out = append(out, *c.Order)
	}
	if c.Window != nil {
		out = append(out, *c.Window)
	}
	return out
}

// Columns returns every column the directives reference, predicates first.
func (c *Compiled) Columns() []string {
	if c == nil {
		return nil
	}
	cols := make([]string, 0, len(c.Predicates)+2)
	for _, p := range c.Predicates {
		cols = append(cols, p.Column)
	}
	if c.Group != nil {
		cols = append(cols, c.Group.Column)
	}
	if c.Order != nil {
		cols = append(cols, c.Order.Column)
	}
	return cols
}

// WithWindow returns a copy of c using w as its page window.
func (c *Compiled) WithWindow(w PageWindow) *Compiled {
	out := c.Clone()
	out.Window = &w
	return out
}

// ForCount returns a copy of c without ordering and page window.
func (c *Compiled) ForCount() *Compiled {
	out := c.Clone()
	out.Order = nil
	out.Window = nil
	return out
}

// Clone returns a deep copy of c. A nil c yields an empty Compiled.
func (c *Compiled) Clone() *Compiled {
	if c == nil {
		return &Compiled{}
	}
	out := &Compiled{
		Predicates: append([]Predicate(nil), c.Predicates...),
	}
	if c.Group != nil {
		g := *c.Group
		out.Group = &g
	}
	if c.Order != nil {
		o := *c.Order
		out.Order = &o
	}
	if c.Window != nil {
		w := *c.Window
		out.Window = &w
	}
	return out
}
