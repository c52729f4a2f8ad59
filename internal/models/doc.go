// Package models defines the domain entities shared by the daysync packages.
//
// Everything here is short-lived and scoped to a single scheduling pass:
//   - [PlaylistRule] : one configured trigger → sync action pairing
//   - [DaylistSnapshot] : name, description and ordered track URIs scraped from an embed page
//   - [PlaylistCandidate] : a library playlist considered by the Daylist locator
//   - [Period] : discrete time-of-day bucket used for rule matching
//
// The streaming service is the system of record; none of these types are persisted.
package models
