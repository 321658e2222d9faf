// Package comment models the stored comment row and its indexable
// document projection.
package comment

import "time"

// DateFormat is the timestamp layout stored in the index.
const DateFormat = "2006-01-02 15:04:05"

// Comment is one stored comment row plus its post denormalization.
type Comment struct {
	ID           int64
	PostID       int64
	Author       string
	AuthorEmail  string
	AuthorURL    string
	AuthorIP     string
	Date         time.Time
	DateGMT      time.Time
	Content      string
	Karma        int
	Approved     string
	Agent        string
	Type         string
	Parent       int64
	UserID       int64
	PostStatus   string
	PostType     string
	PostName     string
	PostParent   int64
	PostAuthorID int64
	Meta         map[string][]string
}

// Document returns the indexable projection of c under the given meta
// policy. Field names match what compiled queries target.
func (c Comment) Document(policy Policy) map[string]any {
	doc := map[string]any{
		"comment_ID":             c.ID,
		"comment_post_ID":        c.PostID,
		"comment_post_author_id": c.PostAuthorID,
		"comment_post_status":    c.PostStatus,
		"comment_post_type":      c.PostType,
		"comment_post_name":      c.PostName,
		"comment_post_parent":    c.PostParent,
		"comment_author":         c.Author,
		"comment_author_email":   c.AuthorEmail,
		"comment_author_url":     c.AuthorURL,
		"comment_author_IP":      c.AuthorIP,
		"comment_date":           c.Date.Format(DateFormat),
		"comment_date_gmt":       c.DateGMT.Format(DateFormat),
		"comment_content":        c.Content,
		"comment_karma":          c.Karma,
		"comment_approved":       c.Approved,
		"comment_agent":          c.Agent,
		"comment_type":           c.Type,
		"comment_parent":         c.Parent,
		"user_id":                c.UserID,
		"date_terms":             dateTerms(c.Date),
	}
	if meta := metaGroups(c.Meta, policy); len(meta) > 0 {
		doc["meta"] = meta
	}
	return doc
}

// dateTerms decomposes ts into the integer components temporal filters
// query. dayofweek counts from Sunday=0, dayofweek_iso from Monday=1.
func dateTerms(ts time.Time) map[string]int {
	_, week := ts.ISOWeek()
	weekday := int(ts.Weekday())
	iso := weekday
	if iso == 0 {
		iso = 7
	}
	return map[string]int{
		"year":          ts.Year(),
		"month":         int(ts.Month()),
		"week":          week,
		"dayofyear":     ts.YearDay(),
		"day":           ts.Day(),
		"dayofweek":     weekday,
		"dayofweek_iso": iso,
		"hour":          ts.Hour(),
		"minute":        ts.Minute(),
		"second":        ts.Second(),
	}
}
