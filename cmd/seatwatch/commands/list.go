package commands

import (
	"fmt"
	"os"
	"time"

	"seatwatch-backend/lib/coursestore"
	"seatwatch-backend/services/coursewatch"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	mineSub  string
	mineAnsi bool
	allAnsi  bool
)

func init() {
	mineCmd.Flags().StringVar(&mineSub, "subscriber", "", "The id of the user to list courses for.")
	mineCmd.Flags().BoolVar(&mineAnsi, "ansi", false, "Print the chat rendering instead of a table.")
	mineCmd.MarkFlagRequired("subscriber")
	allCmd.Flags().BoolVar(&allAnsi, "ansi", false, "Print the chat rendering instead of a table.")

	rootCmd.AddCommand(mineCmd, allCmd)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func renderCourses(courses []coursestore.TrackedCourse, withSubscribers bool) {
	t := newTable()
	header := table.Row{"Class Number", "Name", "Term", "Status", "Seats", "Days & Times", "Instructor", "Updated"}
	if withSubscribers {
		header = append(header, "Subscribers")
	}
	t.AppendHeader(header)

	for _, c := range courses {
		row := table.Row{
			c.Details.CourseNumber,
			c.Details.CourseName,
			fmt.Sprintf("%d %s", c.Identity.Query.Year, c.Identity.Query.Term),
			c.Availability.Status,
			fmt.Sprintf("%s/%s", c.Availability.AvailableSeats, c.Availability.CourseCapacity),
			c.Details.DaysAndTimes,
			c.Details.Instructor,
			c.UpdatedAt.Format(time.DateTime),
		}
		if withSubscribers {
			row = append(row, c.Subscribers)
		}
		t.AppendRow(row)
	}
	t.Render()
}

var mineCmd = &cobra.Command{
	Use:   "mine --subscriber <id>",
	Short: "Lists the courses a subscriber is tracking.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		courses, err := a.service.ListMyTracked(cmd.Context(), mineSub)
		if err != nil {
			return err
		}
		if mineAnsi || len(courses) == 0 {
			fmt.Println(coursewatch.FormatMyTracked(courses))
			return nil
		}
		renderCourses(courses, false)
		return nil
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Lists every tracked course.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		courses, err := a.service.ListAllTracked(cmd.Context())
		if err != nil {
			return err
		}
		if allAnsi || len(courses) == 0 {
			fmt.Println(coursewatch.FormatAllTracked(courses))
			return nil
		}
		renderCourses(courses, true)
		return nil
	},
}
