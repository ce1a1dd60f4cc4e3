package dto

// JSONClientItem is one release listed in a discography page's
// data-client-items attribute. Bandcamp only renders the first releases
// of long discographies as markup and lists the rest there.
type JSONClientItem struct {
	ID      int64  `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	PageURL string `json:"page_url"`
}
