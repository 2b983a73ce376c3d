// Package filter evaluates expr-lang expressions against a film record. It
// backs the auto-save rule: records matching the configured expression are
// saved without asking.
package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/moviesearcher/film"
)

var leadingYear = regexp.MustCompile(`^\d{4}`)

// ExprFilter represents a compiled expr filter
type ExprFilter struct {
	program *vm.Program
	expr    string
}

// CompileExprFilter compiles an expr filter expression. The expression must
// produce a boolean.
func CompileExprFilter(expression string) (*ExprFilter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty expression"}
	}

	program, err := expr.Compile(expression,
		expr.Env(environment(film.Film{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{Expression: expression, Reason: err.Error(), Err: err}
	}

	return &ExprFilter{
		program: program,
		expr:    expression,
	}, nil
}

// Match evaluates the filter against a film
func (f *ExprFilter) Match(movie film.Film) (bool, error) {
	result, err := expr.Run(f.program, environment(movie))
	if err != nil {
		return false, &EvaluationError{Expression: f.expr, FilmTitle: movie.Title, Reason: err.Error(), Err: err}
	}

	matched, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{
			Expression: f.expr,
			FilmTitle:  movie.Title,
			Reason:     fmt.Sprintf("expected bool result, got %T", result),
		}
	}

	return matched, nil
}

// String returns the original expression
func (f *ExprFilter) String() string {
	return f.expr
}

// environment exposes the record's fields and the helper functions.
func environment(movie film.Film) map[string]any {
	return map[string]any{
		// Record fields
		"Title":    movie.Title,
		"Year":     movie.Year,
		"Genre":    movie.Genre,
		"Rating":   movie.Rating,
		"Director": movie.Director,
		"Actors":   movie.Actors,
		"Poster":   movie.Poster,
		"IMDbLink": movie.IMDbLink,
		"Plot":     movie.Plot,

		// Numeric views of the string fields; N/A reads as zero
		"rating": func() float64 {
			return parseRating(movie.Rating)
		},
		"year": func() int {
			return parseYear(movie.Year)
		},

		// List helpers
		"hasGenre": func(genre string) bool {
			return listContains(movie.Genre, genre)
		},
		"hasActor": func(actor string) bool {
			return listContains(movie.Actors, actor)
		},
		"hasPoster": movie.HasPoster,

		// Case-insensitive string helpers. The expr operators contains,
		// startsWith and endsWith stay available for exact matches.
		"includes": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"beginsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"finishesWith": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
	}
}

func parseRating(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// parseYear reads the first four digits, so series ranges like "2008–2013"
// give their start year.
func parseYear(s string) int {
	m := leadingYear.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, _ := strconv.Atoi(m)
	return v
}

// listContains matches one entry of a comma-separated list, ignoring case.
func listContains(list, item string) bool {
	for _, entry := range strings.Split(list, ",") {
		if strings.EqualFold(strings.TrimSpace(entry), strings.TrimSpace(item)) {
			return true
		}
	}
	return false
}
