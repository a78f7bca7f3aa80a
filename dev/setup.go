package main

import (
	"fmt"
	"log/slog"
	"os"

	devenv "seatwatch-backend/dev/env"
	"seatwatch-backend/lib/coursestore"
)

func createCourseStore() error {
	path, err := devenv.ResolvePath("<dev_state>/seatwatch.db")
	if err != nil {
		return err
	}
	_, err = os.Stat(path)
	if err == nil {
		fmt.Println("database already created at", path)
		return nil
	}

	fmt.Println("creating database at", path)
	store, err := coursestore.Open(path)
	if err != nil {
		return err
	}
	return store.Close()
}

func PrintConfigLocations() {
	slog.Info("copy config.json5 to config.local.json5 for local overrides, secrets go in .env (SEATWATCH_DISCORD_TOKEN, SEATWATCH_SMTP_PASSWORD).")
}
