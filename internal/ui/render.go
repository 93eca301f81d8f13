// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ui

import (
	"html/template"
	"io"
)

var feedTemplate = template.Must(template.New("feed").Parse(`
{{- if .Toasts}}<div id="toast-stack" hx-swap-oob="beforeend">
{{- range .Toasts}}<div class="toast toast-{{.Kind}}" role="status">{{.Message}}</div>{{end -}}
</div>{{end}}
{{- range .Modals}}<div class="modal modal-confirm" id="widget-modal" hx-swap-oob="true" role="dialog" aria-modal="true">
<div class="modal-content"><h3 class="modal-title">{{.Title}}</h3><p class="modal-message">{{.Message}}</p>
<form method="post" action="{{.Action}}" hx-post="{{.Action}}" hx-on::after-request="this.closest('.modal').remove()">
{{- range $key, $list := .Values}}{{range $list}}<input type="hidden" name="{{$key}}" value="{{.}}">{{end}}{{end -}}
<button type="button" class="btn btn-secondary" data-dismiss="modal">{{.CancelLabel}}</button>
<button type="submit" class="btn {{if .Danger}}btn-danger{{else}}btn-primary{{end}}">{{.ConfirmLabel}}</button>
</form></div></div>{{end -}}
`))

// Render writes the toasts and modals of feed as out-of-band fragments.
func (feed *Feed) Render(writer io.Writer) error {
	return feedTemplate.Execute(writer, struct {
		Toasts []Toast
		Modals []Modal
	}{feed.Toasts(), feed.Modals()})
}
