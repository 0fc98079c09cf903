package main

import "time"

// shutdownTimeout bounds how long pending spans may take to flush on exit.
const shutdownTimeout = 5 * time.Second

// Valid --on-conflict values.
var validConflictStrategies = []string{"skip", "overwrite"}
