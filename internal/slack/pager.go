package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/url"
)

// pagedField maps cursor-paginated API methods to the envelope field holding
// their item collection.
var pagedField = map[string]string{
	"conversations.list":    "channels",
	"users.list":            "members",
	"conversations.history": "messages",
	"conversations.replies": "messages",
}

// Paginate returns a lazy, single-pass sequence over every item of a
// cursor-paginated entry. It re-issues the request with the last seen
// next_cursor (omitted on the first call) until the cursor comes back absent
// or empty, flattening each page's collection item by item so consumers
// never see page boundaries.
//
// The sequence stops at the first error: an ok:false response surfaces as an
// *APIError and the pagination is abandoned, not retried. A consumer that
// needs the data twice must materialize it.
func Paginate[T any](ctx context.Context, c *Client, entry string, params url.Values) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		field, ok := pagedField[entry]
		if !ok {
			yield(zero, fmt.Errorf("slack: %s: not a paginated entry", entry))
			return
		}

		cursor := ""
		for {
			q := url.Values{}
			for k, vs := range params {
				q[k] = vs
			}
			if cursor != "" {
				q.Set("cursor", cursor)
			}

			env, err := c.call(ctx, entry, q)
			if err != nil {
				yield(zero, err)
				return
			}

			var items []json.RawMessage
			if raw := env.field(field); raw != nil {
				if err := json.Unmarshal(raw, &items); err != nil {
					yield(zero, fmt.Errorf("slack: %s: decode %q: %w", entry, field, err))
					return
				}
			}
			for _, raw := range items {
				var item T
				if err := json.Unmarshal(raw, &item); err != nil {
					yield(zero, fmt.Errorf("slack: %s: decode item: %w", entry, err))
					return
				}
				if !yield(item, nil) {
					return
				}
			}

			cursor = env.ResponseMetadata.NextCursor
			if cursor == "" {
				return
			}
		}
	}
}

// collect materializes a paginated sequence into a slice, stopping at the
// first error.
func collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
