package models

import "database/sql"

// Scooter is one vehicle of the fleet.
type Scooter struct {
	ID          int64
	SerialIndex string

	// encrypted
	Brand                    string
	Model                    string
	SerialNumber             string
	TargetRangeStateOfCharge string
	Location                 string

	TopSpeed        int
	BatteryCapacity int
	StateOfCharge   int
	OutOfService    bool
	Mileage         int
	LastMaintenance sql.NullString
	InServiceDate   string
}

// ScooterTelemetry is the part of a Scooter a service engineer may update.
type ScooterTelemetry struct {
	StateOfCharge   int
	Location        string
	OutOfService    bool
	Mileage         int
	LastMaintenance sql.NullString
}
