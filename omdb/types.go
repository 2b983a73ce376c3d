package omdb

import "github.com/s0up4200/moviesearcher/film"

// Response is the body of a by-title lookup. Pointer fields tell an absent
// key apart from an empty value.
type Response struct {
	Response   string  `json:"Response"`
	Error      string  `json:"Error"`
	Title      *string `json:"Title"`
	Year       *string `json:"Year"`
	Genre      *string `json:"Genre"`
	IMDbRating *string `json:"imdbRating"`
	Director   *string `json:"Director"`
	Actors     *string `json:"Actors"`
	Poster     *string `json:"Poster"`
	IMDbID     *string `json:"imdbID"`
	Plot       *string `json:"Plot"`
}

// OK reports whether the service found the title.
func (r *Response) OK() bool {
	return r.Response == "True"
}

// Film maps the response onto a record. Absent fields become film.NotAvailable;
// an absent IMDb ID leaves the link as the bare prefix.
func (r *Response) Film() film.Film {
	return film.Film{
		Title:    valueOr(r.Title, film.NotAvailable),
		Year:     valueOr(r.Year, film.NotAvailable),
		Genre:    valueOr(r.Genre, film.NotAvailable),
		Rating:   valueOr(r.IMDbRating, film.NotAvailable),
		Director: valueOr(r.Director, film.NotAvailable),
		Actors:   valueOr(r.Actors, film.NotAvailable),
		Poster:   valueOr(r.Poster, film.NotAvailable),
		IMDbLink: film.IMDbLink(valueOr(r.IMDbID, "")),
		Plot:     valueOr(r.Plot, film.NotAvailable),
	}
}

func valueOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
