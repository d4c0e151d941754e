package doctree

// Document is a materialized post handed over by the host.
type Document struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Slug             string `json:"slug"`
	Body             string `json:"body"`
	HasFeaturedAsset bool   `json:"has_featured_asset"`

	// Blocks, when set, is used instead of parsing Body. Importers for
	// non-block formats fill it directly.
	Blocks []*Block `json:"-"`
}
