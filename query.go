package docexp

// Query is a titled term vector, optionally with the raw text it was built from.
type Query struct {
	Title  string
	Text   string
	Vector *TermVector
}

// NewQuery creates a query from a term vector.
func NewQuery(title string, vector *TermVector) *Query {
	return &Query{Title: title, Vector: vector}
}

// ApplyStopper removes stop words from the query vector.
func (q *Query) ApplyStopper(s *Stopper) {
	if q.Vector != nil {
		q.Vector.ApplyStopper(s)
	}
}

// Copy creates a deep copy of the query.
func (q *Query) Copy() *Query {
	c := &Query{Title: q.Title, Text: q.Text}
	if q.Vector != nil {
		c.Vector = q.Vector.Copy()
	} else {
		c.Vector = NewTermVector()
	}
	return c
}

// Terms returns the query terms in ascending order.
func (q *Query) Terms() []string {
	if q.Vector == nil {
		return nil
	}
	return q.Vector.Terms()
}
