package testutil

import (
	"fmt"
	"testing"

	"seatwatch-backend/lib/coursestore"
	"seatwatch-backend/lib/telemetry"
)

type ServiceParams struct {
	Name string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type ServiceResult struct {
	Store coursestore.Store
}

// SetupService sets up telemetry for a test and opens a course store with the
// schema applied. The returned function releases both.
func SetupService(t testing.TB, params ServiceParams) (ServiceResult, func()) {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))

	dbpath := params.DbPath
	if dbpath == "" {
		dbpath = ":memory:"
	}
	store, err := coursestore.Open(dbpath)
	if err != nil {
		cleanup()
		t.Fatal(err)
	}

	return ServiceResult{Store: store}, func() {
		store.Close()
		cleanup()
	}
}
