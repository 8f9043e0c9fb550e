// Package audit implements the append-only, encrypted security event log.
//
// Each event is formatted as
//
//	timestamp|actor|action|detail|Yes
//
// (the last field is "Yes" for suspicious events and "No" otherwise),
// encrypted on its own with the audit key and appended as one line. Since
// lines are independent, a damaged line only loses that one event: readers
// report it as a failed Line and carry on with the rest of the file.
//
// There is no API to update or delete events.
package audit
