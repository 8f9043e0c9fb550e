package models

import "database/sql"

// Traveller is a customer of the rental service.
type Traveller struct {
	ID int64

	// encrypted
	FirstName      string
	LastName       string
	Gender         string
	Street         string
	HouseNumber    string
	ZipCode        string
	City           string
	Email          string
	Phone          sql.NullString
	DrivingLicense sql.NullString

	Birthday         string
	RegistrationDate string
}
