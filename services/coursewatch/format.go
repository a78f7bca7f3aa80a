package coursewatch

import (
	"fmt"
	"strconv"
	"strings"

	"seatwatch-backend/lib/coursestore"
	"seatwatch-backend/lib/scrapers/globalsearch"
)

const (
	ansiReset  = "\033[0m"
	ansiLabel  = "\033[1;36m"
	ansiGreen  = "\033[1;32m"
	ansiRed    = "\033[1;31m"
	ansiYellow = "\033[1;33m"
	ansiBlue   = "\033[34m"
	ansiItalic = "\033[3m"
)

const noInstructor = "No professor assigned"

func label(name string) string {
	return ansiLabel + name + ":" + ansiReset
}

func statusColor(status globalsearch.Status) string {
	switch status {
	case globalsearch.StatusOpen:
		return ansiGreen
	case globalsearch.StatusClosed:
		return ansiRed
	case globalsearch.StatusWaitList:
		return ansiYellow
	default:
		return ansiReset
	}
}

func seatsColor(availableSeats string) string {
	seats, err := strconv.Atoi(availableSeats)
	if err == nil && seats > 0 {
		return ansiGreen
	}
	return ansiRed
}

func courseTitle(name, number string) string {
	return fmt.Sprintf("%s-%s%s%s", name, ansiBlue, number, ansiReset)
}

// FormatAvailability renders the status and seat counts of a course.
func FormatAvailability(a globalsearch.CourseAvailability) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s%s%s\n", label("Status"), statusColor(a.Status), a.Status, ansiReset)
	fmt.Fprintf(
		&b, "%s %s/%s students (%s%s seats available%s)\n",
		label("Enrollment"), a.CurrentlyEnrolled, a.CourseCapacity,
		seatsColor(a.AvailableSeats), a.AvailableSeats, ansiReset,
	)
	fmt.Fprintf(&b, "%s %s/%s students", label("Waitlist"), a.CurrentlyWaitlisted, a.WaitlistCapacity)
	return b.String()
}

func FormatDetails(d globalsearch.CourseDetails) string {
	instructor := d.Instructor
	if instructor == "" {
		instructor = noInstructor
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", label("Class"), courseTitle(d.CourseName, d.CourseNumber))
	fmt.Fprintf(&b, "%s %s\n", label("Room"), d.Room)
	fmt.Fprintf(&b, "%s %s\n", label("Instructor"), instructor)
	fmt.Fprintf(
		&b, "%s This class will meet %s%s%s, %s.",
		label("Schedule"), ansiItalic, d.DaysAndTimes, ansiReset, d.MeetingDates,
	)
	return b.String()
}

// FormatMyTracked renders the courses a subscriber tracks, separated by blank
// lines.
func FormatMyTracked(courses []coursestore.TrackedCourse) string {
	if len(courses) == 0 {
		return "You aren't tracking any courses!"
	}
	entries := make([]string, len(courses))
	for i, c := range courses {
		instructor := c.Details.Instructor
		if instructor == "" {
			instructor = noInstructor
		}
		entries[i] = fmt.Sprintf(
			"%s %s\n  %s %s\n  %s %s",
			label("Class"), courseTitle(c.Details.CourseName, c.Details.CourseNumber),
			label("Days & Times"), c.Details.DaysAndTimes,
			label("Instructor"), instructor,
		)
	}
	return strings.Join(entries, "\n\n")
}

func FormatAllTracked(courses []coursestore.TrackedCourse) string {
	if len(courses) == 0 {
		return "No courses are being tracked!"
	}
	lines := make([]string, len(courses))
	for i, c := range courses {
		lines[i] = courseTitle(c.Details.CourseName, c.Details.CourseNumber)
	}
	return strings.Join(lines, "\n")
}

// FormatStatusChange is the body of a status change notification.
func FormatStatusChange(details globalsearch.CourseDetails, previous, current globalsearch.Status) string {
	return fmt.Sprintf(
		"%s %s\n%s %s%s%s (was %s%s%s)",
		label("Class"), courseTitle(details.CourseName, details.CourseNumber),
		label("Status"), statusColor(current), current, ansiReset,
		statusColor(previous), previous, ansiReset,
	)
}

// AnsiBlock wraps rendered text in a chat code block that keeps its colors.
func AnsiBlock(s string) string {
	return "```ansi\n" + s + "\n```"
}
