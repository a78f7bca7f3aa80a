package notify

import (
	"seatwatch-backend/lib/restyutil"
	"seatwatch-backend/lib/telemetry"
)

var tracer = telemetry.Tracer("seatwatch.lib.notify")
var restyInstrumentOutput restyutil.InstrumentOutput

func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}
