package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"setlist/internal/logging"
	"setlist/internal/pipeline"
	"setlist/internal/resolve"
	"setlist/internal/source"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var buildPlaylistFlag bool
	var playlistName string
	var playlistDescription string

	cmd := &cobra.Command{
		Use:   "process <input.json>",
		Short: "Extract and resolve music mentions from a thread export",
		Long: `Process reads a JSON export of thread submissions and comments, extracts
artist, song, and album mentions with the configured LLM, resolves them
against the configured catalog backend, and writes a run artifact to the
output directory. Pass --playlist to assemble a Spotify playlist from the
run in the same invocation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}

			lock := flock.New(cfg.LockPath())
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another run is in progress (lock held at %s)", cfg.LockPath())
			}
			defer func() { _ = lock.Unlock() }()

			inputPath := strings.TrimSpace(args[0])
			units, err := source.Load(inputPath)
			if err != nil {
				return fmt.Errorf("load input: %w", err)
			}
			if len(units) == 0 {
				return fmt.Errorf("no usable units in %s", inputPath)
			}

			extractor, err := ctx.newExtractor(logger)
			if err != nil {
				return fmt.Errorf("build extractor: %w", err)
			}
			searcher, closeCache, err := ctx.newSearcher(logger)
			if err != nil {
				return fmt.Errorf("build catalog client: %w", err)
			}
			if closeCache != nil {
				defer func() { _ = closeCache() }()
			}
			engine := resolve.NewEngine(searcher, logger)
			runner := pipeline.NewRunner(extractor, engine, cfg.Resolution.Workers, logger)

			logger.Info("run starting",
				logging.String("input", inputPath),
				logging.String(logging.FieldBackend, cfg.Resolution.Backend),
				logging.Int(logging.FieldCount, len(units)),
			)

			items, stats, err := runner.Run(cmd.Context(), units)
			if err != nil {
				return fmt.Errorf("process units: %w", err)
			}

			artifact := pipeline.NewArtifact(cfg.Resolution.Backend, inputPath, items, stats)
			artifactPath, err := artifact.Write(cfg.Paths.OutputDir)
			if err != nil {
				return fmt.Errorf("write artifact: %w", err)
			}

			out := cmd.OutOrStdout()
			printRunSummary(out, artifact, artifactPath)

			if !buildPlaylistFlag {
				return nil
			}
			return buildPlaylistFromArtifact(cmd, ctx, logger, artifact, playlistOptionsFromConfig(cfg), playlistName, playlistDescription)
		},
	}

	cmd.Flags().BoolVar(&buildPlaylistFlag, "playlist", false, "Build a Spotify playlist from the run")
	cmd.Flags().StringVar(&playlistName, "name", "", "Playlist name (default derived from the input file)")
	cmd.Flags().StringVar(&playlistDescription, "description", "", "Playlist description")

	return cmd
}

func printRunSummary(out io.Writer, artifact pipeline.Artifact, artifactPath string) {
	stats := artifact.Stats
	rows := [][]string{
		{"Units processed", strconv.Itoa(stats.Units)},
		{"Submissions", strconv.Itoa(stats.Submissions)},
		{"Comments", strconv.Itoa(stats.Comments)},
		{"Units with matches", strconv.Itoa(stats.UnitsWithMatches)},
		{"Searches requested", strconv.Itoa(stats.Requested)},
		{"Searches resolved", strconv.Itoa(stats.Resolved)},
		{"Artist matches", strconv.Itoa(stats.ArtistMatches)},
		{"Song matches", strconv.Itoa(stats.SongMatches)},
		{"Album matches", strconv.Itoa(stats.AlbumMatches)},
		{"Direct track links", strconv.Itoa(stats.DirectTracks)},
	}

	if isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(out, renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
	} else {
		for _, row := range rows {
			fmt.Fprintf(out, "%s: %s\n", row[0], row[1])
		}
	}
	fmt.Fprintf(out, "Run %s written to %s\n", artifact.RunID, artifactPath)
}
