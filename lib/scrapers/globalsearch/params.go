package globalsearch

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"seatwatch-backend/lib/textutil"

	"github.com/antzucaro/matchr"
)

const (
	DefaultSession     = "Regular Academic Session"
	DefaultInstitution = "Queens College"

	MinCourseNumber = 1000
	MaxCourseNumber = 99999
	MinYear         = 2025
	MaxYear         = 2125
)

// names scoring below this are not offered as suggestions.
const suggestionThreshold = 0.7

type Term int

const (
	TermUnspecified Term = iota
	TermSpring
	TermSummer
	TermFall
)

func (t Term) String() string {
	switch t {
	case TermSpring:
		return "Spring Term"
	case TermSummer:
		return "Summer Term"
	case TermFall:
		return "Fall Term"
	}
	return "Unspecified Term"
}

// ParseTerm accepts "Fall", "fall term" and "Fall Term" style names.
func ParseTerm(s string) (Term, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.TrimSpace(strings.TrimSuffix(normalized, "term"))
	switch normalized {
	case "spring":
		return TermSpring, nil
	case "summer":
		return TermSummer, nil
	case "fall":
		return TermFall, nil
	}
	return TermUnspecified, fmt.Errorf("unknown term %q, expected Spring, Summer or Fall", s)
}

// TermCode is the numeric term identifier the search tool uses.
func TermCode(year int, term Term) int {
	offset := 0
	switch term {
	case TermSpring:
		offset = 2
	case TermSummer:
		offset = 6
	case TermFall:
		offset = 9
	}
	return (year-1900)*10 + offset
}

// CurrentTerm returns the academic term in progress at now.
func CurrentTerm(now time.Time) (int, Term) {
	switch {
	case now.Month() <= time.May:
		return now.Year(), TermSpring
	case now.Month() <= time.August:
		return now.Year(), TermSummer
	default:
		return now.Year(), TermFall
	}
}

type QueryOptions struct {
	CourseNumber int
	// Year and Term default to the term in progress when zero.
	Year int
	Term Term
	// Session and Institution default to DefaultSession and
	// DefaultInstitution when empty.
	Session     string
	Institution string
}

// Query identifies a single course section offering.
type Query struct {
	CourseNumber int
	Year         int
	Term         Term
	Session      string
	Institution  string
}

func (q Query) String() string {
	return fmt.Sprintf("%d (%d %s, %s, %s)", q.CourseNumber, q.Year, q.Term, q.Session, q.Institution)
}

// NewQuery fills defaults and validates options. Session and institution
// names are matched case-insensitively and replaced by their canonical form.
func NewQuery(opts QueryOptions, now time.Time) (Query, error) {
	q := Query{
		CourseNumber: opts.CourseNumber,
		Year:         opts.Year,
		Term:         opts.Term,
		Session:      opts.Session,
		Institution:  opts.Institution,
	}
	if q.CourseNumber < MinCourseNumber || q.CourseNumber > MaxCourseNumber {
		return Query{}, &LookupError{Kind: LookupCourseNumber, Name: strconv.Itoa(q.CourseNumber)}
	}

	currentYear, currentTerm := CurrentTerm(now)
	if q.Year == 0 {
		q.Year = currentYear
	}
	if q.Term == TermUnspecified {
		q.Term = currentTerm
	}
	if q.Year < MinYear || q.Year > MaxYear {
		return Query{}, &LookupError{Kind: LookupYear, Name: strconv.Itoa(q.Year)}
	}
	if q.Session == "" {
		q.Session = DefaultSession
	}
	if q.Institution == "" {
		q.Institution = DefaultInstitution
	}

	var err error
	q.Session, err = canonicalName(LookupSession, q.Session, sessionTokens)
	if err != nil {
		return Query{}, err
	}
	q.Institution, err = canonicalName(LookupInstitution, q.Institution, institutionTokens)
	if err != nil {
		return Query{}, err
	}
	return q, nil
}

// EncodedQuery holds the four opaque parameters the search tool expects.
// Two queries for the same course always encode to the same value.
type EncodedQuery struct {
	ClassNumberSearched string
	SessionSearched     string
	TermSearched        string
	InstSearched        string
}

func (e EncodedQuery) Values() url.Values {
	return url.Values{
		"class_number_searched": {e.ClassNumberSearched},
		"session_searched":      {e.SessionSearched},
		"term_searched":         {e.TermSearched},
		"inst_searched":         {e.InstSearched},
	}
}

func encodeBase64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func Encode(q Query) (EncodedQuery, error) {
	session, err := canonicalName(LookupSession, q.Session, sessionTokens)
	if err != nil {
		return EncodedQuery{}, err
	}
	institution, err := canonicalName(LookupInstitution, q.Institution, institutionTokens)
	if err != nil {
		return EncodedQuery{}, err
	}
	return EncodedQuery{
		ClassNumberSearched: encodeBase64(strconv.Itoa(q.CourseNumber)),
		SessionSearched:     sessionTokens[session],
		TermSearched:        encodeBase64(strconv.Itoa(TermCode(q.Year, q.Term))),
		InstSearched:        institutionTokens[institution],
	}, nil
}

func canonicalName(kind LookupKind, name string, table map[string]string) (string, error) {
	if _, ok := table[name]; ok {
		return name, nil
	}

	normalized := textutil.NormalizeName(name)
	bestName := ""
	bestScore := 0.0
	for known := range table {
		normalizedKnown := textutil.NormalizeName(known)
		if normalizedKnown == normalized {
			return known, nil
		}
		score := matchr.JaroWinkler(normalized, normalizedKnown, false)
		if score > bestScore || (score == bestScore && known < bestName) {
			bestScore = score
			bestName = known
		}
	}

	lookupErr := &LookupError{Kind: kind, Name: name}
	if bestScore >= suggestionThreshold {
		lookupErr.Suggestion = bestName
	}
	return "", lookupErr
}
