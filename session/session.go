// Package session runs the interactive search loop: read a title, look it up,
// show it, offer the poster and a JSON save, then wait before the next prompt.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/moviesearcher/film"
	"github.com/s0up4200/moviesearcher/omdb"
	"github.com/s0up4200/moviesearcher/poster"
)

const (
	exitKeyword = "exit"

	promptTitle  = "Enter a movie title or type 'exit' to quit: "
	promptPoster = "Would you like to view the poster? (yes/no): "
	promptSave   = "Would you like to save the movie data? (yes/no): "

	farewell = "Thanks for using Movie Searcher 2.0"
)

// Options tunes a Session.
type Options struct {
	// OutputDir is where saved records are written. Empty means the working directory.
	OutputDir string
	// Throttle is the pause after each lookup before the next prompt.
	Throttle time.Duration
	// AutoSave, when set, saves matching records without the save prompt.
	AutoSave Matcher
}

// Session is one run of the interactive loop over a line-oriented input.
type Session struct {
	in      *bufio.Reader
	out     io.Writer
	fetcher Fetcher
	posters PosterViewer
	opts    Options
	logger  zerolog.Logger
}

// New creates a Session reading answers from in and writing to out.
func New(in io.Reader, out io.Writer, fetcher Fetcher, posters PosterViewer, logger zerolog.Logger, opts Options) *Session {
	return &Session{
		in:      bufio.NewReader(in),
		out:     out,
		fetcher: fetcher,
		posters: posters,
		opts:    opts,
		logger:  logger,
	}
}

// Run loops until the user types the exit keyword, input ends, or ctx is
// cancelled during the pause between lookups. Only a failed read is an error.
func (s *Session) Run(ctx context.Context) error {
	for {
		title, err := s.ask(promptTitle)
		if err != nil {
			return s.endOfInput(err)
		}

		if strings.EqualFold(title, exitKeyword) {
			fmt.Fprintln(s.out, farewell)
			return nil
		}

		if title == "" {
			continue
		}

		if err := s.turn(ctx, title); err != nil {
			return s.endOfInput(err)
		}

		if err := s.pause(ctx); err != nil {
			s.logger.Debug().Err(err).Msg("Search loop cancelled")
			return nil
		}
	}
}

// turn handles one title: fetch, display, and the two follow-up questions.
func (s *Session) turn(ctx context.Context, title string) error {
	f, ok := s.Lookup(ctx, title)
	if !ok {
		return nil
	}

	fmt.Fprint(s.out, film.Block(f))

	answer, err := s.ask(promptPoster)
	if err != nil {
		return err
	}
	if isYes(answer) {
		s.ShowPoster(ctx, f)
	}

	if s.AutoSaves(f) {
		fmt.Fprintln(s.out, "Auto-save rule matched.")
		s.Save(f)
		return nil
	}

	answer, err = s.ask(promptSave)
	if err != nil {
		return err
	}
	if isYes(answer) {
		s.Save(f)
	}

	return nil
}

// Lookup fetches a title and reports failures to the user. The second result
// is false when there is no record to show.
func (s *Session) Lookup(ctx context.Context, title string) (film.Film, bool) {
	f, err := s.fetcher.FetchFilm(ctx, title)
	if err == nil {
		return f, true
	}

	var apiErr *omdb.APIError
	switch {
	case errors.As(err, &apiErr):
		if apiErr.IsUnauthorized() {
			s.logger.Warn().Err(err).Msg("The movie database rejected the API key")
		} else {
			s.logger.Debug().Err(err).Msg("Lookup failed")
		}
		fmt.Fprintf(s.out, "Error fetching data for %s, please check the spelling or try another title.\n", title)
	default:
		s.logger.Error().Err(err).Str("title", title).Msg("Lookup failed")
		fmt.Fprintf(s.out, "Error fetching data for %s: the movie database could not be reached.\n", title)
	}

	return film.Film{}, false
}

// ShowPoster displays the record's poster, reporting problems without failing.
func (s *Session) ShowPoster(ctx context.Context, f film.Film) {
	err := s.posters.Show(ctx, f.Poster)
	switch {
	case err == nil:
	case errors.Is(err, poster.ErrNotAvailable):
		fmt.Fprintln(s.out, "Poster not available.")
	default:
		s.logger.Debug().Err(err).Str("poster", f.Poster).Msg("Poster display failed")
		fmt.Fprintf(s.out, "Unable to display the poster: %v\n", err)
	}
}

// Save writes the record to the output directory and reports the file name.
func (s *Session) Save(f film.Film) bool {
	path, err := film.Save(f, s.opts.OutputDir)
	if err != nil {
		s.logger.Error().Err(err).Str("title", f.Title).Msg("Save failed")
		fmt.Fprintf(s.out, "Unable to save the movie data: %v\n", err)
		return false
	}

	fmt.Fprintf(s.out, "Saved movie data to %s\n", path)
	return true
}

// AutoSaves reports whether the auto-save rule selects the record. Rule errors
// are logged and count as no match.
func (s *Session) AutoSaves(f film.Film) bool {
	if s.opts.AutoSave == nil {
		return false
	}

	matched, err := s.opts.AutoSave.Match(f)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Auto-save rule failed, asking instead")
		return false
	}
	return matched
}

// ask prints a prompt and reads one trimmed line. A final line without a
// newline is still returned; io.EOF only comes back when nothing was read.
func (s *Session) ask(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)

	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

// pause waits out the throttle interval between lookups.
func (s *Session) pause(ctx context.Context) error {
	if s.opts.Throttle <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.opts.Throttle)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(s.out)
		return nil
	}
	return fmt.Errorf("failed to read input: %w", err)
}

// isYes accepts any answer starting with y, in any case.
func isYes(answer string) bool {
	return strings.HasPrefix(strings.ToLower(answer), "y")
}
