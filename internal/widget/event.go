// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package widget is the lifecycle toolkit shared by the comment and rating modules.

  - [Event]: one visitor interaction posted by the browser.
  - [Bindings]: the dispatch table of an instance, keyed by action and scoped to
    the instance container. Releasing it is the instance teardown.
  - [Observer]: the load-more sentinel watcher.
  - [Guard]: the in-flight flags serializing overlapping operations.
*/
package widget

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/taibuivan/yomira-widgets/internal/platform/constants"
	"github.com/taibuivan/yomira-widgets/internal/platform/validate"
)

// Event types posted by the browser.
const (
	EventClick     = "click"
	EventSubmit    = "submit"
	EventIntersect = "intersect"
	EventHover     = "hover"
)

// Event is one visitor interaction.
type Event struct {
	Type   string
	Action string
	Target string
	Ratio  float64
	Values url.Values
}

// Value returns the first value of key.
func (ev Event) Value(key string) string {
	return ev.Values.Get(key)
}

// TargetID parses Target as a positive numeric identifier.
func (ev Event) TargetID() (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(ev.Target), 10, 64)
	if err != nil || id <= 0 {
		return 0, validate.ErrInvalidPayload
	}
	return id, nil
}

// EventFromRequest decodes an event from a form or query encoded request.
//
// Fields: "event" (defaults to click), "action", "target", "ratio"; every field
// stays reachable through [Event.Values].
func EventFromRequest(request *http.Request) (Event, error) {
	if err := request.ParseForm(); err != nil {
		return Event{}, validate.ErrInvalidPayload
	}

	ev := Event{
		Type:   request.Form.Get("event"),
		Action: strings.TrimSpace(request.Form.Get("action")),
		Target: request.Form.Get("target"),
		Values: request.Form,
	}
	if ev.Type == "" {
		ev.Type = EventClick
	}
	if ev.Action == "" {
		return Event{}, validate.ErrInvalidPayload
	}

	if raw := request.Form.Get("ratio"); raw != "" {
		ratio, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Event{}, validate.ErrInvalidPayload
		}
		ev.Ratio = ratio
	}

	return ev, nil
}

// Frame is what a rendered fragment needs to post events back.
type Frame struct {
	EventURL  string
	CSRFToken string
}

// Headers is the JSON object of request headers every event of the fragment
// carries, for the hx-headers attribute.
func (frame Frame) Headers() string {
	encoded, err := json.Marshal(map[string]string{constants.HeaderCSRFToken: frame.CSRFToken})
	if err != nil {
		return "{}"
	}
	return string(encoded)
}

// Swap strategies understood by the page script.
const (
	SwapOuterHTML = "outerHTML"
	SwapBeforeEnd = "beforeend"
	SwapNone      = "none"
)

// Swap tells the browser where a rendered fragment goes.
type Swap struct {
	Target   string
	Strategy string
}
