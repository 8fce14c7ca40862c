// Package events provides a small in-process observer registry.
//
// A Bus maps an event kind to an ordered list of subscribers. Emitting an
// event calls every subscriber of that kind in registration order. A
// subscriber that panics is logged and skipped so that the remaining
// subscribers still receive the event.
package events
