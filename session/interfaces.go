package session

import (
	"context"

	"github.com/s0up4200/moviesearcher/film"
)

// Fetcher looks a movie up by title.
type Fetcher interface {
	FetchFilm(ctx context.Context, title string) (film.Film, error)
}

// PosterViewer displays a poster URL.
type PosterViewer interface {
	Show(ctx context.Context, posterURL string) error
}

// Matcher decides whether a record should be saved without asking.
type Matcher interface {
	Match(f film.Film) (bool, error)
}
