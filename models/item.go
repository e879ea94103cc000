package models

// Item is one post or comment submitted for analysis.
type Item struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

// IDSet returns the set of item ids in the batch.
func IDSet(items []Item) map[int64]struct{} {
	out := make(map[int64]struct{}, len(items))
	for _, item := range items {
		out[item.ID] = struct{}{}
	}
	return out
}
