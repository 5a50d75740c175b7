// Package timeouts defines shared timeout constants used across commands.
package timeouts

import "time"

// ScenarioStep caps a single scripted scenario step, journal writes
// included.
const ScenarioStep = 10 * time.Second

// TelemetryShutdown limits how long a command waits for pending spans to
// flush on exit.
const TelemetryShutdown = 5 * time.Second
