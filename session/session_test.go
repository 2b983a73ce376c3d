package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/moviesearcher/film"
	"github.com/s0up4200/moviesearcher/omdb"
	"github.com/s0up4200/moviesearcher/poster"
)

type fakeFetcher struct {
	films map[string]film.Film
	err   error
	calls []string
}

func (f *fakeFetcher) FetchFilm(ctx context.Context, title string) (film.Film, error) {
	f.calls = append(f.calls, title)
	if f.err != nil {
		return film.Film{}, f.err
	}
	if movie, ok := f.films[title]; ok {
		return movie, nil
	}
	return film.Film{}, &omdb.APIError{Title: title, StatusCode: 200, Message: "Movie not found!"}
}

type fakeViewer struct {
	shown []string
	err   error
}

func (v *fakeViewer) Show(ctx context.Context, posterURL string) error {
	if posterURL == "" || posterURL == film.NotAvailable {
		return poster.ErrNotAvailable
	}
	v.shown = append(v.shown, posterURL)
	return v.err
}

type matchFunc func(film.Film) (bool, error)

func (m matchFunc) Match(f film.Film) (bool, error) { return m(f) }

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("terminal gone") }

func matrix() film.Film {
	return film.Film{
		Title:    "The Matrix",
		Year:     "1999",
		Genre:    "Action, Sci-Fi",
		Rating:   "8.7",
		Director: "Lana Wachowski, Lilly Wachowski",
		Actors:   "Keanu Reeves",
		Poster:   "https://example.com/matrix.jpg",
		IMDbLink: film.IMDbLink("tt0133093"),
		Plot:     "A hacker learns the truth.",
	}
}

func newSession(t *testing.T, input string, fetcher Fetcher, viewer PosterViewer, opts Options) (*Session, *bytes.Buffer) {
	t.Helper()

	if opts.OutputDir == "" {
		opts.OutputDir = t.TempDir()
	}

	var out bytes.Buffer
	return New(strings.NewReader(input), &out, fetcher, viewer, zerolog.Nop(), opts), &out
}

func TestRun_ExitKeyword(t *testing.T) {
	for _, keyword := range []string{"exit", "EXIT", "ExIt", "  exit  "} {
		t.Run(keyword, func(t *testing.T) {
			fetcher := &fakeFetcher{}
			s, out := newSession(t, keyword+"\nThe Matrix\n", fetcher, &fakeViewer{}, Options{})

			require.NoError(t, s.Run(context.Background()))

			assert.Empty(t, fetcher.calls)
			assert.Equal(t, promptTitle+farewell+"\n", out.String())
		})
	}
}

func TestRun_FullTurn(t *testing.T) {
	fetcher := &fakeFetcher{films: map[string]film.Film{"The Matrix": matrix()}}
	viewer := &fakeViewer{}
	dir := t.TempDir()

	s, out := newSession(t, "The Matrix\nyes\nY\nexit\n", fetcher, viewer, Options{OutputDir: dir})
	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, []string{"The Matrix"}, fetcher.calls)
	assert.Equal(t, []string{"https://example.com/matrix.jpg"}, viewer.shown)

	output := out.String()
	assert.Contains(t, output, film.Block(matrix()))
	assert.Contains(t, output, promptPoster)
	assert.Contains(t, output, promptSave)
	assert.Contains(t, output, "Saved movie data to "+filepath.Join(dir, "The_Matrix.json"))
	assert.True(t, strings.HasSuffix(output, farewell+"\n"))

	data, err := os.ReadFile(filepath.Join(dir, "The_Matrix.json"))
	require.NoError(t, err)
	var saved map[string]string
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Len(t, saved, 8)
	assert.Equal(t, "The Matrix", saved["Title"])
}

func TestRun_DeclinedActions(t *testing.T) {
	fetcher := &fakeFetcher{films: map[string]film.Film{"The Matrix": matrix()}}
	viewer := &fakeViewer{}
	dir := t.TempDir()

	s, out := newSession(t, "The Matrix\nno\n\nexit\n", fetcher, viewer, Options{OutputDir: dir})
	require.NoError(t, s.Run(context.Background()))

	assert.Empty(t, viewer.shown)
	assert.NotContains(t, out.String(), "Saved movie data")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_NotFoundContinues(t *testing.T) {
	fetcher := &fakeFetcher{films: map[string]film.Film{"The Matrix": matrix()}}
	s, out := newSession(t, "The Matirx\nThe Matrix\nn\nn\nexit\n", fetcher, &fakeViewer{}, Options{})

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, []string{"The Matirx", "The Matrix"}, fetcher.calls)
	output := out.String()
	assert.Contains(t, output, "Error fetching data for The Matirx, please check the spelling or try another title.\n"+promptTitle)
	assert.Contains(t, output, "Title: The Matrix")
	assert.Equal(t, 3, strings.Count(output, promptTitle))
}

func TestRun_TransportErrorContinues(t *testing.T) {
	fetcher := &fakeFetcher{err: fmt.Errorf("%w: connection refused", omdb.ErrTransport)}
	s, out := newSession(t, "Alien\nexit\n", fetcher, &fakeViewer{}, Options{})

	require.NoError(t, s.Run(context.Background()))

	assert.Contains(t, out.String(), "Error fetching data for Alien: the movie database could not be reached.\n")
	assert.True(t, strings.HasSuffix(out.String(), farewell+"\n"))
}

func TestRun_EmptyLineSkipsLookup(t *testing.T) {
	fetcher := &fakeFetcher{}
	s, out := newSession(t, "\n   \nexit\n", fetcher, &fakeViewer{}, Options{})

	require.NoError(t, s.Run(context.Background()))

	assert.Empty(t, fetcher.calls)
	assert.Equal(t, 3, strings.Count(out.String(), promptTitle))
}

func TestRun_EndOfInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		calls int
	}{
		{name: "immediately", input: "", calls: 0},
		{name: "after a lookup", input: "The Matrix\n", calls: 1},
		{name: "at the save prompt", input: "The Matrix\nn\n", calls: 1},
		{name: "title without newline", input: "The Matrix", calls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{films: map[string]film.Film{"The Matrix": matrix()}}
			s, _ := newSession(t, tt.input, fetcher, &fakeViewer{}, Options{})

			require.NoError(t, s.Run(context.Background()))
			assert.Len(t, fetcher.calls, tt.calls)
		})
	}
}

func TestRun_ReadError(t *testing.T) {
	var out bytes.Buffer
	s := New(failingReader{}, &out, &fakeFetcher{}, &fakeViewer{}, zerolog.Nop(), Options{})

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal gone")
}

func TestRun_Throttle(t *testing.T) {
	fetcher := &fakeFetcher{}
	s, _ := newSession(t, "Alien\nAliens\nexit\n", fetcher, &fakeViewer{}, Options{Throttle: 50 * time.Millisecond})

	start := time.Now()
	require.NoError(t, s.Run(context.Background()))

	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
	assert.Len(t, fetcher.calls, 2)
}

func TestRun_CancelledDuringPause(t *testing.T) {
	fetcher := &fakeFetcher{}
	s, out := newSession(t, "Alien\nAliens\nexit\n", fetcher, &fakeViewer{}, Options{Throttle: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.NoError(t, s.Run(ctx))
	assert.Equal(t, []string{"Alien"}, fetcher.calls)
	assert.NotContains(t, out.String(), farewell)
}

func TestRun_AutoSave(t *testing.T) {
	fetcher := &fakeFetcher{films: map[string]film.Film{"The Matrix": matrix()}}
	dir := t.TempDir()
	rule := matchFunc(func(f film.Film) (bool, error) { return f.Rating == "8.7", nil })

	s, out := newSession(t, "The Matrix\nn\nexit\n", fetcher, &fakeViewer{}, Options{OutputDir: dir, AutoSave: rule})
	require.NoError(t, s.Run(context.Background()))

	output := out.String()
	assert.Contains(t, output, "Auto-save rule matched.\nSaved movie data to ")
	assert.NotContains(t, output, promptSave)
	assert.FileExists(t, filepath.Join(dir, "The_Matrix.json"))
}

func TestRun_AutoSaveErrorFallsBackToPrompt(t *testing.T) {
	fetcher := &fakeFetcher{films: map[string]film.Film{"The Matrix": matrix()}}
	rule := matchFunc(func(film.Film) (bool, error) { return false, errors.New("boom") })

	s, out := newSession(t, "The Matrix\nn\nn\nexit\n", fetcher, &fakeViewer{}, Options{AutoSave: rule})
	require.NoError(t, s.Run(context.Background()))

	assert.Contains(t, out.String(), promptSave)
}

func TestShowPoster(t *testing.T) {
	t.Run("not available", func(t *testing.T) {
		viewer := &fakeViewer{}
		s, out := newSession(t, "", &fakeFetcher{}, viewer, Options{})

		movie := matrix()
		movie.Poster = film.NotAvailable
		s.ShowPoster(context.Background(), movie)

		assert.Equal(t, "Poster not available.\n", out.String())
		assert.Empty(t, viewer.shown)
	})

	t.Run("viewer failure is reported", func(t *testing.T) {
		viewer := &fakeViewer{err: errors.New("failed to decode poster: unknown format")}
		s, out := newSession(t, "", &fakeFetcher{}, viewer, Options{})

		s.ShowPoster(context.Background(), matrix())

		assert.Equal(t, "Unable to display the poster: failed to decode poster: unknown format\n", out.String())
	})
}

func TestSave_Failure(t *testing.T) {
	s, out := newSession(t, "", &fakeFetcher{}, &fakeViewer{}, Options{OutputDir: filepath.Join(t.TempDir(), "missing")})

	assert.False(t, s.Save(matrix()))
	assert.Contains(t, out.String(), "Unable to save the movie data: ")
}

func TestIsYes(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"y", true},
		{"Y", true},
		{"yes", true},
		{"YES", true},
		{"yeah", true},
		{"n", false},
		{"no", false},
		{"", false},
		{"sure", false},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			assert.Equal(t, tt.want, isYes(tt.answer))
		})
	}
}
