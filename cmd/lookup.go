package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/moviesearcher/film"
)

var (
	lookupPoster bool
	lookupSave   bool
)

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup <title>",
	Short: "Look up a single title and exit",
	Long: `Look up one movie by its exact title, print its details and exit.

Words are joined with spaces, so quoting the title is optional:

  moviesearcher lookup The Matrix
  moviesearcher lookup "The Matrix" --save`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	PreRunE:      initializeApp,
	RunE:         runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().BoolVar(&lookupPoster, "poster", false, "open the poster")
	lookupCmd.Flags().BoolVar(&lookupSave, "save", false, "save the movie data as JSON")
}

func runLookup(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return fmt.Errorf("title must not be blank")
	}

	s := newSession(cmd)
	ctx := cmd.Context()

	movie, ok := s.Lookup(ctx, title)
	if !ok {
		return fmt.Errorf("no movie found for %q", title)
	}

	fmt.Fprint(cmd.OutOrStdout(), film.Block(movie))

	if lookupPoster {
		s.ShowPoster(ctx, movie)
	}

	if lookupSave || s.AutoSaves(movie) {
		if !s.Save(movie) {
			return fmt.Errorf("failed to save %q", movie.Title)
		}
	}

	return nil
}
