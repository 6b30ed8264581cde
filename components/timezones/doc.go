// Package timezones provides the timezone-picker component: an embedded IANA
// zone catalog, prefix-first search and a net/http handler returning select
// options for the picker's optionsEndpoint.
package timezones
