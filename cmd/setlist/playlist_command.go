package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"setlist/internal/config"
	"setlist/internal/logging"
	"setlist/internal/pipeline"
	"setlist/internal/playlist"
)

func newPlaylistCommand(ctx *commandContext) *cobra.Command {
	var name string
	var description string
	var artistLimit int
	var albumLimit int
	var sample bool

	cmd := &cobra.Command{
		Use:   "playlist <artifact.json>",
		Short: "Assemble a Spotify playlist from a run artifact",
		Long: `Playlist reads a run artifact produced by the process command, expands the
resolved matches into concrete Spotify tracks, and creates a shuffled
playlist on the configured account. Requires a Spotify user access token;
client credentials alone cannot create playlists.`,
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

			artifact, err := pipeline.ReadArtifact(strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}

			opts := playlistOptionsFromConfig(cfg)
			if cmd.Flags().Changed("sample") {
				opts.SampleTopTracks = sample
			}
			if artistLimit > 0 {
				opts.ArtistLimit = artistLimit
			}
			if albumLimit > 0 {
				opts.AlbumLimit = albumLimit
			}

			return buildPlaylistFromArtifact(cmd, ctx, logger, artifact, opts, name, description)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Playlist name (default derived from the artifact)")
	cmd.Flags().StringVar(&description, "description", "", "Playlist description")
	cmd.Flags().IntVar(&artistLimit, "artist-limit", 0, "Top tracks per matched artist (default from config)")
	cmd.Flags().IntVar(&albumLimit, "album-limit", 0, "Popular tracks per matched album (default from config)")
	cmd.Flags().BoolVar(&sample, "sample", false, "Expand artist and album matches into tracks (default from config)")

	return cmd
}

func playlistOptionsFromConfig(cfg *config.Config) playlist.Options {
	return playlist.Options{
		SampleTopTracks: cfg.Resolution.SampleTopTracks,
		ArtistLimit:     cfg.Resolution.ArtistLimit,
		AlbumLimit:      cfg.Resolution.AlbumLimit,
	}
}

func buildPlaylistFromArtifact(cmd *cobra.Command, ctx *commandContext, logger *slog.Logger, artifact pipeline.Artifact, opts playlist.Options, name, description string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	client, err := ctx.newSpotifyClient()
	if err != nil {
		return fmt.Errorf("build spotify client: %w", err)
	}

	entries := artifact.PlaylistEntries()
	materializer := playlist.NewMaterializer(client, logger)
	tracks, err := materializer.Collect(cmd.Context(), entries, opts)
	if err != nil {
		return fmt.Errorf("collect tracks: %w", err)
	}
	if len(tracks) == 0 {
		return fmt.Errorf("run %s produced no playable tracks", artifact.RunID)
	}

	if strings.TrimSpace(name) == "" {
		name = defaultPlaylistName(artifact)
	}
	if strings.TrimSpace(description) == "" {
		description = fmt.Sprintf("Generated from %s on %s", artifact.Input, time.Now().Format("2006-01-02"))
	}

	builder := playlist.NewBuilder(client, cfg.Resolution.PlaylistBatchSize, nil, logger)
	created, added, err := builder.Build(cmd.Context(), name, description, tracks)
	if err != nil {
		return fmt.Errorf("build playlist: %w", err)
	}

	logger.Info("playlist built",
		logging.String(logging.FieldRunID, artifact.RunID),
		logging.String("playlist_id", created.ID),
		logging.Int(logging.FieldCount, added),
	)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created playlist %q with %d tracks\n", created.Name, added)
	if created.URL != "" {
		fmt.Fprintln(out, created.URL)
	}
	return nil
}

func defaultPlaylistName(artifact pipeline.Artifact) string {
	base := strings.TrimSpace(artifact.Input)
	if idx := strings.LastIndexAny(base, "/\\"); idx >= 0 {
		base = base[idx+1:]
	}
	base = strings.TrimSuffix(base, ".json")
	if base == "" {
		base = "setlist"
	}
	return fmt.Sprintf("%s %s", base, artifact.CreatedAt.Format("2006-01-02"))
}
