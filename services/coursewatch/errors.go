package coursewatch

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyTracking = errors.New("you are already tracking this course")
	ErrNotTracking     = errors.New("you are not tracking this course")
	ErrCourseNotFound  = errors.New("course not found in database")
)

// UserMessage renders err the way it is shown to whoever issued a command.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyTracking),
		errors.Is(err, ErrNotTracking),
		errors.Is(err, ErrCourseNotFound):
		return fmt.Sprintf("%s!", capitalize(err.Error()))
	}
	return fmt.Sprintf("an error occurred: %s", err.Error())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
