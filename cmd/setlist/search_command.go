package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"setlist/internal/catalog"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var artist string

	cmd := &cobra.Command{
		Use:   "search <artist|song|album> <query>",
		Short: "Run a one-off catalog search",
		Long: `Search queries the configured catalog backend directly and prints the
candidate matches with the top match marked. Useful for checking how a
mention would resolve without running a full extraction pass.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}
			searcher, closeCache, err := ctx.newSearcher(logger)
			if err != nil {
				return fmt.Errorf("build catalog client: %w", err)
			}
			if closeCache != nil {
				defer func() { _ = closeCache() }()
			}

			kind := strings.ToLower(strings.TrimSpace(args[0]))
			query := strings.TrimSpace(strings.Join(args[1:], " "))

			var matches []catalog.Match
			switch kind {
			case "artist":
				matches, err = searcher.SearchArtist(cmd.Context(), query)
			case "song":
				matches, err = searcher.SearchSong(cmd.Context(), query, artist)
			case "album":
				matches, err = searcher.SearchAlbum(cmd.Context(), query, artist)
			default:
				return fmt.Errorf("unknown search kind %q (expected artist, song, or album)", kind)
			}
			if err != nil {
				return fmt.Errorf("search %s: %w", kind, err)
			}

			out := cmd.OutOrStdout()
			if len(matches) == 0 {
				fmt.Fprintf(out, "No matches for %q\n", query)
				return nil
			}

			top := catalog.TopMatch(matches)
			rows := make([][]string, 0, len(matches))
			for _, match := range matches {
				marker := ""
				if top != nil && match.ID == top.ID {
					marker = "*"
				}
				rows = append(rows, []string{
					marker,
					match.Name,
					match.Artist,
					strconv.Itoa(match.Score),
					match.ID,
					match.Disambiguation,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"", "Name", "Artist", "Score", "ID", "Notes"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&artist, "artist", "a", "", "Artist name to scope song and album searches")

	return cmd
}
