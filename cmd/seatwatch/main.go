package main

import (
	"seatwatch-backend/cmd/seatwatch/commands"
	"seatwatch-backend/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
