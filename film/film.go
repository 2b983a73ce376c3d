// Package film holds the movie record produced by a lookup, along with its
// console rendering and its JSON file form.
package film

// NotAvailable is the upstream marker for a value the database does not have.
// It is carried through verbatim rather than converted to an empty string.
const NotAvailable = "N/A"

// IMDbTitleURL is the prefix every IMDb link is built from.
const IMDbTitleURL = "https://www.imdb.com/title/"

// Film is one movie as returned by a successful lookup. It is a value type and
// is never modified after construction.
type Film struct {
	Title    string
	Year     string
	Genre    string
	Rating   string
	Director string
	Actors   string
	Poster   string
	IMDbLink string
	Plot     string
}

// IMDbLink builds the IMDb page URL for an IMDb identifier.
func IMDbLink(imdbID string) string {
	return IMDbTitleURL + imdbID
}

// HasPoster reports whether the record carries a usable poster URL.
func (f Film) HasPoster() bool {
	return f.Poster != "" && f.Poster != NotAvailable
}
