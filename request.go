package commentdex

// Request builds a query argument map fluently. Every method returns the
// receiver, so calls chain; Args snapshots the accumulated map.
type Request struct {
	args map[string]any

	metaClauses []any
	metaRel     string

	dateClause map[string]any
}

// NewRequest returns an empty Request.
func NewRequest() *Request {
	return &Request{args: map[string]any{}}
}

// Search sets the free-text search term.
func (r *Request) Search(term string) *Request {
	r.args["search"] = term
	return r
}

// Status filters by moderation status literals (approve, hold, spam,
// trash, all).
func (r *Request) Status(statuses ...string) *Request {
	return r.multi("status", statuses)
}

// IncludeUnapproved also admits unapproved comments owned by the given
// user ids or author emails.
func (r *Request) IncludeUnapproved(identifiers ...string) *Request {
	return r.multi("include_unapproved", identifiers)
}

// Post filters by the parent post id.
func (r *Request) Post(id int64) *Request {
	r.args["post_id"] = id
	return r
}

// PostIn filters by a parent post id list.
func (r *Request) PostIn(ids ...int64) *Request {
	r.args["post__in"] = ids
	return r
}

// Author filters by the commenting user id.
func (r *Request) Author(userID int64) *Request {
	r.args["user_id"] = userID
	return r
}

// AuthorEmail filters by the exact author email.
func (r *Request) AuthorEmail(email string) *Request {
	r.args["author_email"] = email
	return r
}

// Type filters by comment type literals.
func (r *Request) Type(types ...string) *Request {
	return r.multi("type", types)
}

// Parent filters by the parent comment id.
func (r *Request) Parent(id int64) *Request {
	r.args["parent"] = id
	return r
}

// Hierarchical pins unfiltered requests to top-level comments.
func (r *Request) Hierarchical(mode string) *Request {
	r.args["hierarchical"] = mode
	return r
}

// Karma filters by the exact karma value, zero included.
func (r *Request) Karma(karma int) *Request {
	r.args["karma"] = karma
	return r
}

// Meta adds an equality predicate on a metadata key.
func (r *Request) Meta(key string, value any) *Request {
	return r.MetaCompare(key, value, "")
}

// MetaCompare adds a metadata predicate with an explicit operator
// (=, !=, >, >=, <, <=, EXISTS, NOT EXISTS, LIKE, ...).
func (r *Request) MetaCompare(key string, value any, compare string) *Request {
	clause := map[string]any{"key": key}
	if value != nil {
		clause["value"] = value
	}
	if compare != "" {
		clause["compare"] = compare
	}
	r.metaClauses = append(r.metaClauses, clause)
	return r
}

// MetaExists adds an existence predicate on a metadata key.
func (r *Request) MetaExists(key string) *Request {
	return r.MetaCompare(key, nil, "EXISTS")
}

// MetaRelation joins the metadata predicates with AND or OR.
func (r *Request) MetaRelation(relation string) *Request {
	r.metaRel = relation
	return r
}

// After keeps comments dated strictly after the bound. The value is a
// date string or a component mapping.
func (r *Request) After(bound any) *Request {
	r.dateArg("after", bound)
	return r
}

// Before keeps comments dated strictly before the bound.
func (r *Request) Before(bound any) *Request {
	r.dateArg("before", bound)
	return r
}

// Inclusive widens the date bounds to closed intervals.
func (r *Request) Inclusive() *Request {
	r.dateArg("inclusive", true)
	return r
}

// OrderBy sets the sort alias (date, id, post_id, karma, relevance, ...).
func (r *Request) OrderBy(alias string) *Request {
	r.args["order_by"] = alias
	return r
}

// Order sets the sort direction, asc or desc.
func (r *Request) Order(direction string) *Request {
	r.args["order"] = direction
	return r
}

// Page selects a one-based result page.
func (r *Request) Page(n int) *Request {
	r.args["page"] = n
	return r
}

// PerPage sets the page size.
func (r *Request) PerPage(n int) *Request {
	r.args["number"] = n
	return r
}

// Offset skips n results. Offset wins over Page.
func (r *Request) Offset(n int) *Request {
	r.args["offset"] = n
	return r
}

// IDsOnly narrows the projection to comment ids.
func (r *Request) IDsOnly() *Request {
	r.args["fields"] = "ids"
	return r
}

// Arg sets a raw query argument for dimensions without a dedicated
// method.
func (r *Request) Arg(key string, value any) *Request {
	r.args[key] = value
	return r
}

// Args returns a copy of the accumulated argument map.
func (r *Request) Args() map[string]any {
	out := make(map[string]any, len(r.args)+2)
	for k, v := range r.args {
		out[k] = v
	}

	if len(r.metaClauses) > 0 {
		if r.metaRel != "" {
			out["meta_query"] = map[string]any{
				"relation": r.metaRel,
				"clauses":  r.metaClauses,
			}
		} else {
			out["meta_query"] = r.metaClauses
		}
	}

	if len(r.dateClause) > 0 {
		out["date_query"] = []any{r.dateClause}
	}

	return out
}

func (r *Request) multi(key string, values []string) *Request {
	switch len(values) {
	case 0:
	case 1:
		r.args[key] = values[0]
	default:
		r.args[key] = values
	}
	return r
}

func (r *Request) dateArg(key string, value any) {
	if r.dateClause == nil {
		r.dateClause = map[string]any{}
	}
	r.dateClause[key] = value
}
