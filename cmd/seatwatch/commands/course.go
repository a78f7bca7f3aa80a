package commands

import (
	"fmt"

	"seatwatch-backend/services/coursewatch"

	"github.com/spf13/cobra"
)

var (
	addQuery     queryFlags
	addChannel   string
	addSub       string
	removeQuery  queryFlags
	removeSub    string
	availQuery   queryFlags
	detailsQuery queryFlags
	scrapeQuery  queryFlags
)

func init() {
	addQuery.register(addCmd)
	addCmd.Flags().StringVar(&addSub, "subscriber", "", "The id of the user tracking the course.")
	addCmd.Flags().StringVar(&addChannel, "channel", "", `Where to send notifications, a chat channel id or "mailto:<address>".`)
	addCmd.MarkFlagRequired("subscriber")
	addCmd.MarkFlagRequired("channel")

	removeQuery.register(removeCmd)
	removeCmd.Flags().StringVar(&removeSub, "subscriber", "", "The id of the user tracking the course.")
	removeCmd.MarkFlagRequired("subscriber")

	availQuery.register(availabilityCmd)
	detailsQuery.register(detailsCmd)
	scrapeQuery.register(scrapeCmd)

	rootCmd.AddCommand(addCmd, removeCmd, availabilityCmd, detailsCmd, scrapeCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <course number> --subscriber <id> --channel <id>",
	Short: "Starts tracking a course for a subscriber.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := addQuery.options(args[0])
		if err != nil {
			return err
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.service.AddTrackedCourse(cmd.Context(), opts, addSub, addChannel)
		if err != nil {
			return err
		}
		fmt.Printf("Added %d to your tracked courses.\n", res.Query.CourseNumber)
		fmt.Println(coursewatch.FormatDetails(res.Details))
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <course number> --subscriber <id>",
	Short: "Stops tracking a course for a subscriber.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := removeQuery.options(args[0])
		if err != nil {
			return err
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.service.RemoveTrackedCourse(cmd.Context(), opts, removeSub)
		if err != nil {
			return err
		}
		fmt.Printf("Successfully removed %d.\n", res.Query.CourseNumber)
		if res.Deleted {
			fmt.Println("No one else was tracking this course, so it was removed from the database.")
		}
		return nil
	},
}

var availabilityCmd = &cobra.Command{
	Use:   "availability <course number>",
	Short: "Shows the last stored availability of a tracked course.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := availQuery.options(args[0])
		if err != nil {
			return err
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		avail, err := a.service.GetAvailability(cmd.Context(), opts)
		if err != nil {
			return err
		}
		fmt.Println(coursewatch.FormatAvailability(avail))
		return nil
	},
}

var detailsCmd = &cobra.Command{
	Use:   "details <course number>",
	Short: "Shows the meeting times, room and instructor of a tracked course.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := detailsQuery.options(args[0])
		if err != nil {
			return err
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		details, err := a.service.GetDetails(cmd.Context(), opts)
		if err != nil {
			return err
		}
		fmt.Println(coursewatch.FormatDetails(details))
		return nil
	},
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <course number>",
	Short: "Fetches a course from Global Search and prints it without tracking it.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := scrapeQuery.options(args[0])
		if err != nil {
			return err
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		q, course, err := a.service.Scrape(cmd.Context(), opts)
		if err != nil {
			return err
		}
		fmt.Println(q.String())
		fmt.Println(coursewatch.FormatDetails(course.Details))
		fmt.Println(coursewatch.FormatAvailability(course.Availability))
		return nil
	},
}
