package commands

import (
	"fmt"
	"strconv"

	"seatwatch-backend/lib/scrapers/globalsearch"

	"github.com/spf13/cobra"
)

type queryFlags struct {
	year        int
	term        string
	session     string
	institution string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.year, "year", 0, "The year of the term, defaults to the term in progress.")
	cmd.Flags().StringVar(&f.term, "term", "", "Spring, Summer or Fall, defaults to the term in progress.")
	cmd.Flags().StringVar(&f.session, "session", "", fmt.Sprintf("The course session, defaults to %q.", globalsearch.DefaultSession))
	cmd.Flags().StringVar(&f.institution, "institution", "", fmt.Sprintf("The college, defaults to %q.", globalsearch.DefaultInstitution))
}

// options parses the course number positional argument together with the
// flags.
func (f *queryFlags) options(courseNumber string) (globalsearch.QueryOptions, error) {
	number, err := strconv.Atoi(courseNumber)
	if err != nil {
		return globalsearch.QueryOptions{}, fmt.Errorf("course number %q is not a number", courseNumber)
	}
	opts := globalsearch.QueryOptions{
		CourseNumber: number,
		Year:         f.year,
		Session:      f.session,
		Institution:  f.institution,
	}
	if f.term != "" {
		opts.Term, err = globalsearch.ParseTerm(f.term)
		if err != nil {
			return globalsearch.QueryOptions{}, err
		}
	}
	return opts, nil
}
