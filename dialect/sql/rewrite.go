package sql

// RewriteUpdate expands tracked document parameters of an UPDATE statement
// into per-path assignments. For every parameter bound to a modified
// *TrackedDocument, the whole-document entry is replaced by one
// `col['key']` entry per changed key carrying the current value, and one
// per deleted key carrying nil. Parameters bound to unmodified documents
// or plain values pass through unchanged.
//
// The input statement is not mutated; the returned statement carries the
// rewritten parameter sets and, when any expansion happened, a marker
// forcing the path-aware compilation of SET clauses.
func RewriteUpdate(u *UpdateBuilder) *UpdateBuilder {
	rewritten := false
	var values *Params
	if u.values != nil {
		values = rewriteParams(u.values, &rewritten)
	}
	var rows []*Params
	if len(u.rows) > 0 {
		rows = make([]*Params, len(u.rows))
		for i, r := range u.rows {
			rows[i] = rewriteParams(r, &rewritten)
		}
	}
	c := u.clone()
	c.values = values
	c.rows = rows
	if rewritten {
		c.pathRewritten = true
	}
	return c
}

func rewriteParams(p *Params, rewritten *bool) *Params {
	out := NewParams()
	for _, key := range p.Keys() {
		val, _ := p.Get(key)
		doc, ok := val.(*TrackedDocument)
		if !ok || !doc.Modified() {
			out.Set(key, val)
			continue
		}
		*rewritten = true
		for _, sub := range doc.ChangedKeys() {
			v, _ := doc.Get(sub)
			out.Set(key+"['"+sub+"']", v)
		}
		for _, sub := range doc.DeletedKeys() {
			out.Set(key+"['"+sub+"']", nil)
		}
	}
	return out
}
