// Package models defines the records the console persists: operator accounts,
// scooters and travellers.
//
// Repositories store these structs verbatim. Sensitive string fields hold
// cryptox field tokens once a service has sealed them; numeric telemetry,
// dates and the blind index columns are stored in the clear.
package models
