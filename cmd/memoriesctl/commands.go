package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mapmemories/mapmemories/internal/catalog"
	"github.com/mapmemories/mapmemories/internal/hub"
	"github.com/mapmemories/mapmemories/internal/logger"
	"github.com/mapmemories/mapmemories/internal/model"
	"github.com/mapmemories/mapmemories/internal/noteblocks"
	"github.com/mapmemories/mapmemories/internal/search"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all memories, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			memories, err := st.Memories().List(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, memories)
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one memory, including reconciled note blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			m, err := st.Memories().GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if m == nil {
				return fmt.Errorf("memory %s: %w", args[0], model.ErrNotFound)
			}
			m.NoteBlocks = noteblocks.Reconcile(m)
			return printJSON(os.Stdout, m)
		},
	}
}

func newAddCmd() *cobra.Command {
	var (
		title    string
		body     string
		place    string
		lat, lon float64
		happened string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a memory at a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			now := time.Now().UTC().Format(time.RFC3339)
			if happened == "" {
				happened = now
			}
			m := &model.Memory{
				ID:         uuid.NewString(),
				CreatedAt:  now,
				UpdatedAt:  now,
				HappenedAt: happened,
				Latitude:   lat,
				Longitude:  lon,
			}
			if title != "" {
				m.Title = &title
			}
			if body != "" {
				m.Body = &body
			}
			if place != "" {
				m.PlaceLabel = &place
			}
			if err := st.Memories().Upsert(cmd.Context(), m); err != nil {
				return err
			}
			fmt.Println(m.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Display label")
	cmd.Flags().StringVarP(&body, "body", "b", "", "Free-text note")
	cmd.Flags().StringVarP(&place, "place", "p", "", "Human-readable location")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude in degrees (required)")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude in degrees (required)")
	cmd.Flags().StringVar(&happened, "happened", "", "When the memory happened (RFC 3339, default: now)")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a memory and its media",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			return st.Memories().Delete(cmd.Context(), args[0])
		},
	}
}

func newSearchCmd() *cobra.Command {
	var (
		query  string
		filter string
		order  string
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Filter and sort memories",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			memories, err := st.Memories().List(cmd.Context())
			if err != nil {
				return err
			}
			results := search.FilterAndSort(memories, search.Options{
				Query:  query,
				Filter: search.TrackFilter(filter),
				Sort:   search.SortOrder(order),
			})
			return printJSON(os.Stdout, results)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Free-text query over title, body, and place")
	cmd.Flags().StringVarP(&filter, "filter", "f", string(search.FilterAll), "Track filter: all, withTrack, withoutTrack")
	cmd.Flags().StringVarP(&order, "order", "o", string(search.SortNewest), "Sort order: newest, oldest")
	return cmd
}

func newMediaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Manage media attached to a memory",
	}

	listCmd := &cobra.Command{
		Use:   "list <memory-id>",
		Short: "List media for a memory, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			items, err := st.Media().ListByMemory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, items)
		},
	}

	var uri string
	addCmd := &cobra.Command{
		Use:   "add <memory-id>",
		Short: "Attach an image to a memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			item := &model.MemoryMedia{
				ID:        uuid.NewString(),
				MemoryID:  args[0],
				Type:      model.MediaImage,
				URI:       uri,
				CreatedAt: time.Now().UTC().Format(time.RFC3339),
			}
			if err := st.Media().Add(cmd.Context(), item); err != nil {
				return err
			}
			fmt.Println(item.ID)
			return nil
		},
	}
	addCmd.Flags().StringVarP(&uri, "uri", "u", "", "Media locator (required)")
	_ = addCmd.MarkFlagRequired("uri")

	rmCmd := &cobra.Command{
		Use:   "rm <media-id>",
		Short: "Remove a single media item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			return st.Media().Delete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(listCmd, addCmd, rmCmd)
	return cmd
}

func newSongCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "song",
		Short: "Search the music catalog and attach tracks",
	}

	var limit int
	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog for tracks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := openStore()
			if err != nil {
				return err
			}
			if cfg.CatalogToken == "" {
				return fmt.Errorf("MAPMEMORIES_CATALOG_TOKEN is not set")
			}
			client := catalog.New(cfg.CatalogBaseURL, catalog.StaticToken(cfg.CatalogToken), logger.New("catalog"))
			tracks, err := client.SearchTracks(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, tracks)
		},
	}
	searchCmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum results")

	attachCmd := &cobra.Command{
		Use:   "attach <memory-id> <track-id> <title> <artist>",
		Short: "Attach a track to a memory",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			h := hub.New(st, logger.New("hub"))
			return h.SetTrack(cmd.Context(), args[0], model.Track{
				ExternalID: args[1],
				Title:      args[2],
				Artist:     args[3],
			})
		},
	}

	detachCmd := &cobra.Command{
		Use:   "detach <memory-id>",
		Short: "Remove the track attached to a memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			h := hub.New(st, logger.New("hub"))
			return h.RemoveTrack(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(searchCmd, attachCmd, detachCmd)
	return cmd
}
