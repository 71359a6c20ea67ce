package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/retailcast/retailcast/internal/model"
)

func (c *console) contentCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "content", Short: "manage uploaded content"}

	list := &cobra.Command{
		Use:   "list",
		Short: "list all content",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := c.contents.List()
			if err != nil {
				return err
			}
			for _, item := range all {
				fmt.Printf("%d\t%s\tslides=%d\tactive=%v\n", item.ID, item.Title, len(item.Slides), item.Active)
			}
			return nil
		},
	}

	var title string
	var images, videos []string
	add := &cobra.Command{
		Use:   "add",
		Short: "upload a new content record",
		RunE: func(cmd *cobra.Command, args []string) error {
			content := model.Content{Title: title}
			for _, payload := range images {
				content.Slides = append(content.Slides, model.Slide{Type: model.SlideImage, Payload: payload})
			}
			for _, payload := range videos {
				content.Slides = append(content.Slides, model.Slide{Type: model.SlideVideo, Payload: payload})
			}
			created, err := c.contents.Create(content)
			if err != nil {
				return err
			}
			fmt.Printf("created content %d\n", created.ID)
			return nil
		},
	}
	add.Flags().StringVar(&title, "title", "", "content title")
	add.Flags().StringArrayVar(&images, "image", nil, "image slide payload (repeatable)")
	add.Flags().StringArrayVar(&videos, "video", nil, "video slide payload (repeatable)")
	_ = add.MarkFlagRequired("title")

	disable := &cobra.Command{
		Use:   "disable <id>",
		Short: "permanently disable content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("content id must be numeric: %w", err)
			}
			if _, err := c.contents.Disable(id); err != nil {
				return err
			}
			fmt.Printf("content %d permanently disabled\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, add, disable)
	return cmd
}

func (c *console) deviceCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "device", Short: "manage device types"}

	list := &cobra.Command{
		Use:   "list",
		Short: "list all device types",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := c.store.ListDeviceTypes()
			if err != nil {
				return err
			}
			for _, d := range all {
				fmt.Printf("%s\t%s\t%s\t%dx%d\tactive=%v\n",
					d.ID, d.Name, d.Orientation, d.Resolution.Width, d.Resolution.Height, d.Active)
			}
			return nil
		},
	}

	var id, name, orientation string
	var width, height int
	add := &cobra.Command{
		Use:   "add",
		Short: "register a device type",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := model.DeviceType{
				ID:          id,
				Name:        name,
				Orientation: orientation,
				Resolution:  model.Resolution{Width: width, Height: height},
			}
			if _, err := c.store.CreateDeviceType(d); err != nil {
				return err
			}
			fmt.Printf("created device type %s\n", id)
			return nil
		},
	}
	add.Flags().StringVar(&id, "id", "", "device type id")
	add.Flags().StringVar(&name, "name", "", "device type name")
	add.Flags().StringVar(&orientation, "orientation", model.OrientationBoth, "horizontal|vertical|both")
	add.Flags().IntVar(&width, "width", 1920, "resolution width")
	add.Flags().IntVar(&height, "height", 1080, "resolution height")
	_ = add.MarkFlagRequired("id")
	_ = add.MarkFlagRequired("name")

	disable := &cobra.Command{
		Use:   "disable <id>",
		Short: "permanently disable a device type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.store.DisableDeviceType(args[0]); err != nil {
				return err
			}
			fmt.Printf("device type %s permanently disabled\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, add, disable)
	return cmd
}
