package coursestore

import "seatwatch-backend/lib/telemetry"

var tracer = telemetry.Tracer("seatwatch.lib.coursestore")
