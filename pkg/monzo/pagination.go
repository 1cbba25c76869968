package monzo

import (
	"strconv"
	"strings"
	"time"
)

// PaginationOptions narrows a transaction listing. SinceTime and SinceID are
// alternatives; SinceTime wins when both are set.
type PaginationOptions struct {
	SinceTime  *time.Time
	SinceID    string
	BeforeTime *time.Time
	Limit      *int
}

// String renders the options as the query fragment the API expects:
//
//	&limit=<L>&since=<S>&before=<B>
//
// Every segment is always present, even when its value is empty.
func (p PaginationOptions) String() string {
	var limit, since, before string

	if p.Limit != nil {
		limit = strconv.Itoa(*p.Limit)
	}

	switch {
	case p.SinceTime != nil:
		since = FormatTime(*p.SinceTime)
	case p.SinceID != "":
		since = p.SinceID
	}

	if p.BeforeTime != nil {
		before = FormatTime(*p.BeforeTime)
	}

	var b strings.Builder
	b.WriteString("&limit=")
	b.WriteString(limit)
	b.WriteString("&since=")
	b.WriteString(since)
	b.WriteString("&before=")
	b.WriteString(before)
	return b.String()
}
