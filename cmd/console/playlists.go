package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/retailcast/retailcast/internal/model"
)

const dateLayout = "2006-01-02"

func (c *console) playlistCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "playlist", Short: "manage content-targeting playlists"}

	list := &cobra.Command{
		Use:   "list",
		Short: "list all playlists",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := c.store.ListPlaylists()
			if err != nil {
				return err
			}
			for _, p := range all {
				marker := ""
				if p.Live() {
					marker = " (live)"
				}
				fmt.Printf("%d\t%s\t%s\t%s%s\n", p.ID, p.Name, p.EffectiveStatus(), p.RegionCode, marker)
			}
			return nil
		},
	}

	var (
		name, territoryType, start, end, playlistType, triggerSubtype string
		states, cities, stores, manualStores                          []string
		items                                                         []string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "create a playlist (enters the approval queue as pending)",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := model.Playlist{
				Name: name,
				Type: playlistType,
				Territory: model.TerritorySelection{
					Type:         territoryType,
					States:       states,
					Cities:       cities,
					PickedStores: stores,
					ManualStores: manualStores,
				},
			}
			var err error
			if p.StartDate, err = time.Parse(dateLayout, start); err != nil {
				return fmt.Errorf("start date must look like 2026-01-31: %w", err)
			}
			if p.EndDate, err = time.Parse(dateLayout, end); err != nil {
				return fmt.Errorf("end date must look like 2026-01-31: %w", err)
			}
			if triggerSubtype != "" {
				p.Trigger = &model.Trigger{Subtype: triggerSubtype}
			}
			for _, spec := range items {
				contentID, duration, err := parseItem(spec)
				if err != nil {
					return err
				}
				p.Items = append(p.Items, model.PlaylistItem{ContentID: contentID, Duration: duration})
			}
			created, err := c.engine.Create(p)
			if err != nil {
				return err
			}
			fmt.Printf("created playlist %d region=%s\n", created.ID, created.RegionCode)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "playlist name")
	create.Flags().StringVar(&territoryType, "territory", model.TerritoryCountry, "country|state|city|store")
	create.Flags().StringArrayVar(&states, "state", nil, "selected state (repeatable, order kept)")
	create.Flags().StringArrayVar(&cities, "city", nil, "selected city (repeatable, order kept)")
	create.Flags().StringArrayVar(&stores, "store", nil, "selected store id (repeatable)")
	create.Flags().StringArrayVar(&manualStores, "manual-store", nil, "manually typed store id, validated against the directory (repeatable)")
	create.Flags().StringArrayVar(&items, "item", nil, "content item as contentID:durationSeconds (repeatable)")
	create.Flags().StringVar(&start, "start", "", "start date YYYY-MM-DD")
	create.Flags().StringVar(&end, "end", "", "end date YYYY-MM-DD")
	create.Flags().StringVar(&playlistType, "type", model.PlaylistRegular, "regular|trigger")
	create.Flags().StringVar(&triggerSubtype, "trigger", "", "trigger subtype for trigger playlists")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("start")
	_ = create.MarkFlagRequired("end")

	approve := playlistIDCommand("approve", "approve a pending playlist or draft", func(id int) error {
		_, err := c.engine.Approve(id)
		return err
	})
	reject := playlistIDCommand("reject", "reject a pending playlist or draft", func(id int) error {
		_, err := c.engine.Reject(id)
		return err
	})
	disable := playlistIDCommand("disable", "soft-disable a live playlist (terminal)", func(id int) error {
		_, err := c.engine.Disable(id)
		return err
	})

	cmd.AddCommand(list, create, approve, reject, disable)
	return cmd
}

func playlistIDCommand(use, short string, run func(id int) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("playlist id must be numeric: %w", err)
			}
			if err := run(id); err != nil {
				return err
			}
			fmt.Printf("playlist %d: %s ok\n", id, use)
			return nil
		},
	}
}

func parseItem(spec string) (contentID, duration int, err error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("item %q: want contentID:durationSeconds", spec)
	}
	if contentID, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, fmt.Errorf("item %q: bad content id", spec)
	}
	if duration, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, fmt.Errorf("item %q: bad duration", spec)
	}
	return contentID, duration, nil
}
