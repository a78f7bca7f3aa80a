package globalsearch

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"seatwatch-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

type Status string

const (
	StatusOpen     Status = "Open"
	StatusClosed   Status = "Closed"
	StatusWaitList Status = "Wait List"
)

// Known reports whether the status is one the search tool is known to
// display. Unknown statuses are still stored verbatim.
func (s Status) Known() bool {
	switch s {
	case StatusOpen, StatusClosed, StatusWaitList:
		return true
	}
	return false
}

// CourseDetails is the descriptive part of a course page, it does not change
// over a term.
type CourseDetails struct {
	CourseNumber string
	CourseName   string
	DaysAndTimes string
	Room         string
	Instructor   string
	MeetingDates string
}

// CourseAvailability is the enrollment part of a course page. Counts are kept
// exactly as displayed.
type CourseAvailability struct {
	Status              Status
	CourseCapacity      string
	WaitlistCapacity    string
	CurrentlyEnrolled   string
	CurrentlyWaitlisted string
	AvailableSeats      string
}

type Page struct {
	URL  string
	Body []byte
}

const (
	FieldCourseName        = "course name"
	FieldCourseNumber      = "course number"
	FieldStatus            = "status"
	FieldDaysAndTimes      = "days and times"
	FieldRoom              = "room"
	FieldInstructor        = "instructor"
	FieldMeetingDates      = "meeting dates"
	FieldAvailabilityTable = "class availability"
)

var statusImageTitles = []string{"Open", "Closed", "Wait", "Wait List"}

func Extract(page Page) (CourseDetails, CourseAvailability, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return CourseDetails{}, CourseAvailability{}, err
	}
	return ExtractDocument(doc)
}

func ExtractDocument(doc *goquery.Document) (CourseDetails, CourseAvailability, error) {
	var details CourseDetails
	var avail CourseAvailability

	heading := doc.Find("div.shadowbox").First().Find("p").First()
	if heading.Length() == 0 {
		return details, avail, &ExtractionError{Field: FieldCourseName}
	}
	name, _, _ := strings.Cut(htmlutil.SelectionText(heading), " - ")
	details.CourseName = strings.TrimSpace(name)
	if details.CourseName == "" {
		return details, avail, &ExtractionError{Field: FieldCourseName, Detail: "empty"}
	}

	number, err := extractCourseNumber(doc)
	if err != nil {
		return details, avail, err
	}
	details.CourseNumber = number

	status, err := extractStatus(doc)
	if err != nil {
		return details, avail, err
	}
	avail.Status = status

	labelled := []struct {
		label string
		field string
		out   *string
	}{
		{"Days And Times", FieldDaysAndTimes, &details.DaysAndTimes},
		{"Room", FieldRoom, &details.Room},
		{"Instructor", FieldInstructor, &details.Instructor},
		{"Meeting Dates", FieldMeetingDates, &details.MeetingDates},
	}
	for _, l := range labelled {
		cell := doc.Find(fmt.Sprintf(`td[data-label="%s"]`, l.label)).First()
		if cell.Length() == 0 {
			return details, avail, &ExtractionError{Field: l.field}
		}
		*l.out = htmlutil.SelectionText(cell)
	}

	counts, err := extractAvailabilityCounts(doc)
	if err != nil {
		return details, avail, err
	}
	avail.CourseCapacity = counts[0]
	avail.WaitlistCapacity = counts[1]
	avail.CurrentlyEnrolled = counts[2]
	avail.CurrentlyWaitlisted = counts[3]
	avail.AvailableSeats = counts[4]

	return details, avail, nil
}

// findByOwnString returns the first element of the given tag whose own
// string contains text.
func findByOwnString(doc *goquery.Document, tag, text string) *html.Node {
	var found *html.Node
	doc.Find(tag).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		str, ok := htmlutil.OwnString(s.Nodes[0])
		if ok && strings.Contains(str, text) {
			found = s.Nodes[0]
			return false
		}
		return true
	})
	return found
}

func extractCourseNumber(doc *goquery.Document) (string, error) {
	label := findByOwnString(doc, "td", "Class Number")
	if label == nil {
		return "", &ExtractionError{Field: FieldCourseNumber, Detail: "no Class Number label"}
	}
	value := htmlutil.NextElement(label)
	if value == nil {
		return "", &ExtractionError{Field: FieldCourseNumber, Detail: "no element after the label"}
	}
	return htmlutil.StrippedText(value), nil
}

func extractStatus(doc *goquery.Document) (Status, error) {
	var cell *html.Node
	doc.Find("img[title]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title := s.AttrOr("title", "")
		for _, t := range statusImageTitles {
			if title != t {
				continue
			}
			parent := s.ParentsFiltered("td").First()
			if parent.Length() > 0 {
				cell = parent.Nodes[0]
				return false
			}
		}
		return true
	})
	if cell == nil {
		return "", &ExtractionError{Field: FieldStatus}
	}
	text := htmlutil.StrippedText(cell)
	if text == "" {
		return "", &ExtractionError{Field: FieldStatus, Detail: "status cell is empty"}
	}
	return Status(text), nil
}

func extractAvailabilityCounts(doc *goquery.Document) ([5]string, error) {
	var counts [5]string

	heading := findByOwnString(doc, "b", "Class Availability")
	if heading == nil {
		return counts, &ExtractionError{Field: FieldAvailabilityTable, Detail: "no Class Availability heading"}
	}
	table := htmlutil.NextElementMatching(heading, "table")
	if table == nil {
		return counts, &ExtractionError{Field: FieldAvailabilityTable, Detail: "no table after the heading"}
	}

	spans := goquery.NewDocumentFromNode(table).Find("span")
	if spans.Length() < len(counts) {
		return counts, &ExtractionError{
			Field:  FieldAvailabilityTable,
			Detail: fmt.Sprintf("found %d of %d values", spans.Length(), len(counts)),
		}
	}
	for i := range counts {
		counts[i] = htmlutil.StrippedText(spans.Nodes[i])
	}
	return counts, nil
}

// CheckCourseNumber returns a *MismatchError when the page describes a
// different course than the query asked for.
func CheckCourseNumber(q Query, details CourseDetails) error {
	expected := strconv.Itoa(q.CourseNumber)
	if details.CourseNumber != expected {
		return &MismatchError{Expected: expected, Got: details.CourseNumber}
	}
	return nil
}
