// Package entity defines the entries managed by the nhood services and the
// errors shared between their layers. DataURL is owned by the data-url
// service and Location by the location service.
package entity

import "errors"

// ErrEntryNotFound is returned when no entry with the requested id exists in the store.
var ErrEntryNotFound = errors.New("entry not found")

// DataURL associates an ordered sequence of keys with a data source URL.
type DataURL struct {
	ID  int64    // ID is assigned by the store on create and never changes afterwards.
	Key []string // Key is the ordered key sequence the URL is published under.
	URL string   // URL is the address of the data source.
}

// MergeDataURL replaces every non-id field of existing with the one from incoming
// and returns existing.
func MergeDataURL(existing, incoming *DataURL) *DataURL {
	existing.Key = append([]string(nil), incoming.Key...)
	existing.URL = incoming.URL
	return existing
}

// Location is a message pinned to a geographic point.
type Location struct {
	ID        int64   // ID is assigned by the store on create and never changes afterwards.
	Message   string  // Message is the text attached to the point.
	Latitude  float64 // Latitude in decimal degrees.
	Longitude float64 // Longitude in decimal degrees.
}

// MergeLocation replaces every non-id field of existing with the one from incoming
// and returns existing.
func MergeLocation(existing, incoming *Location) *Location {
	existing.Message = incoming.Message
	existing.Latitude = incoming.Latitude
	existing.Longitude = incoming.Longitude
	return existing
}
