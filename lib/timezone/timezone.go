package timezone

import (
	"time"

	_ "time/tzdata"
)

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
}

// terms roll over on New York dates regardless of where the server runs.
func Now() time.Time {
	return time.Now().In(Location)
}
