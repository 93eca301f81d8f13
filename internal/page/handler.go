// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-widgets/internal/content"
	"github.com/taibuivan/yomira-widgets/internal/platform/apperr"
	"github.com/taibuivan/yomira-widgets/internal/platform/constants"
	"github.com/taibuivan/yomira-widgets/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/yomira-widgets/internal/platform/request"
	"github.com/taibuivan/yomira-widgets/internal/platform/respond"
	"github.com/taibuivan/yomira-widgets/internal/ui"
	"github.com/taibuivan/yomira-widgets/internal/widget"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// instance is what the transport needs from a comment thread or a rating widget.
type instance interface {
	Dispatch(ctx context.Context, ev widget.Event) (widget.Outcome, bool, error)
	Render(ctx context.Context, writer io.Writer, frame widget.Frame, outcome widget.Outcome) (widget.Swap, error)
}

// Handler exposes widget sessions over HTTP.
type Handler struct {
	boot     *Bootstrapper
	registry *Registry
	prefix   string
}

// NewHandler creates the widget transport. prefix is where [Handler.Routes] is mounted.
func NewHandler(boot *Bootstrapper, registry *Registry, prefix string) *Handler {
	return &Handler{boot: boot, registry: registry, prefix: strings.TrimRight(prefix, "/")}
}

// Routes returns the widget router.
func (handler *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/mount", handler.mount)
	r.Route("/{session}", func(r chi.Router) {
		r.Get("/comments", handler.renderComments)
		r.Post("/comments/events", handler.commentEvent)
		r.Get("/ratings/{instance}", handler.renderRating)
		r.Post("/ratings/{instance}/events", handler.ratingEvent)
		r.Delete("/", handler.unmount)
	})

	return r
}

// # Mount

// MountRequest is the JSON form of a mount.
type MountRequest struct {
	ContentType string  `json:"content_type"`
	ContentID   int64   `json:"content_id"`
	ChapterIDs  []int64 `json:"chapter_ids"`
}

// MountResponse describes a mounted session to JSON clients.
type MountResponse struct {
	SessionID string   `json:"session_id"`
	Comments  bool     `json:"comments"`
	Ratings   []string `json:"ratings"`
}

func (handler *Handler) mount(writer http.ResponseWriter, request *http.Request) {
	ref, chapters, err := parseMount(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.boot.Mount(request.Context(), ref, chapters)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if requestutil.IsJSON(request) {
		respond.Created(writer, MountResponse{
			SessionID: session.ID(),
			Comments:  session.Comments() != nil,
			Ratings:   session.RatingKeys(),
		})
		return
	}

	ctx := request.Context()
	shell := struct {
		SessionID  string
		ContentKey string
		Ratings    []template.HTML
		Comments   template.HTML
	}{SessionID: session.ID(), ContentKey: ref.Key()}

	for _, key := range session.RatingKeys() {
		fragment, err := handler.fragment(ctx, session.Rating(key), handler.ratingFrame(ctx, session, key))
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		shell.Ratings = append(shell.Ratings, fragment)
	}
	if thread := session.Comments(); thread != nil {
		fragment, err := handler.fragment(ctx, thread, handler.commentFrame(ctx, session))
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		shell.Comments = fragment
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, "shell", shell); err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}
	respond.HTML(writer, http.StatusCreated, "", "", body.Bytes())
}

// parseMount reads content_type, content_id and chapter_ids from JSON or form values.
func parseMount(request *http.Request) (content.Ref, []content.Ref, error) {
	var input MountRequest

	if requestutil.IsJSON(request) {
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			return content.Ref{}, nil, err
		}
	} else {
		if err := request.ParseForm(); err != nil {
			return content.Ref{}, nil, apperr.ValidationError("Invalid mount request")
		}
		ref, err := content.Parse(request.Form.Get("content_type"), request.Form.Get("content_id"))
		if err != nil {
			return content.Ref{}, nil, err
		}
		input.ContentType = string(ref.Type)
		input.ContentID = ref.ID
		for _, raw := range request.Form["chapter_ids"] {
			for _, part := range strings.Split(raw, ",") {
				if part = strings.TrimSpace(part); part == "" {
					continue
				}
				id, err := strconv.ParseInt(part, 10, 64)
				if err != nil {
					return content.Ref{}, nil, apperr.ValidationError("Invalid chapter id")
				}
				input.ChapterIDs = append(input.ChapterIDs, id)
			}
		}
	}

	ref := content.Ref{Type: content.Type(strings.ToLower(input.ContentType)), ID: input.ContentID}
	if err := ref.Validate(); err != nil {
		return content.Ref{}, nil, err
	}

	chapters := make([]content.Ref, 0, len(input.ChapterIDs))
	for _, id := range input.ChapterIDs {
		chapters = append(chapters, content.Ref{Type: content.TypeChapter, ID: id})
	}
	return ref, chapters, nil
}

func (handler *Handler) unmount(writer http.ResponseWriter, request *http.Request) {
	if err := handler.registry.Remove(request.Context(), chi.URLParam(request, "session")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Fragments

func (handler *Handler) renderComments(writer http.ResponseWriter, request *http.Request) {
	session, thread, err := handler.commentInstance(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.write(writer, request, nil, thread, handler.commentFrame(request.Context(), session), widget.Full())
}

func (handler *Handler) renderRating(writer http.ResponseWriter, request *http.Request) {
	session, rating, key, err := handler.ratingInstance(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.write(writer, request, nil, rating, handler.ratingFrame(request.Context(), session, key), widget.Full())
}

// # Events

func (handler *Handler) commentEvent(writer http.ResponseWriter, request *http.Request) {
	session, thread, err := handler.commentInstance(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.dispatch(writer, request, thread, handler.commentFrame(request.Context(), session))
}

func (handler *Handler) ratingEvent(writer http.ResponseWriter, request *http.Request) {
	session, rating, key, err := handler.ratingInstance(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.dispatch(writer, request, rating, handler.ratingFrame(request.Context(), session, key))
}

/*
dispatch runs one visitor event against target.

Description: The event is replayable: its values, minus the CSRF token and the
confirmation flag, become the repost of any confirmation modal it raises. The
answer is the widget fragment followed by the out-of-band toasts and modals.
*/
func (handler *Handler) dispatch(writer http.ResponseWriter, request *http.Request, target instance, frame widget.Frame) {
	ev, err := widget.EventFromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	repost := url.Values{}
	for key, list := range ev.Values {
		if key == constants.FormCSRFToken || key == ui.ConfirmedField {
			continue
		}
		repost[key] = append([]string(nil), list...)
	}
	if frame.CSRFToken != "" {
		repost.Set(constants.FormCSRFToken, frame.CSRFToken)
	}

	feed := ui.NewFeed(ev.Value(ui.ConfirmedField) == "true", ui.Repost{URL: request.URL.Path, Values: repost})
	ctx := ui.WithFeed(request.Context(), feed)

	outcome, handled, err := target.Dispatch(ctx, ev)
	switch {
	case errors.Is(err, widget.ErrUnknownAction):
		respond.Error(writer, request, apperr.ValidationError("Unknown action: "+ev.Action))
		return
	case err != nil:
		respond.Error(writer, request, err)
		return
	case !handled:
		respond.Error(writer, request, apperr.NotFound("Widget instance"))
		return
	}

	ctxutil.GetLogger(ctx).Debug("widget_event_handled",
		slog.String("action", ev.Action),
		slog.String("event", ev.Type),
		slog.Int("render", int(outcome.Render)),
	)
	handler.write(writer, request.WithContext(ctx), feed, target, frame, outcome)
}

// write renders target and the feed into one response.
func (handler *Handler) write(writer http.ResponseWriter, request *http.Request, feed *ui.Feed, target instance, frame widget.Frame, outcome widget.Outcome) {
	var body bytes.Buffer

	swap, err := target.Render(request.Context(), &body, frame, outcome)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	if feed != nil {
		if err := feed.Render(&body); err != nil {
			respond.Error(writer, request, apperr.Internal(err))
			return
		}
		if header := feed.HeaderValue(); header != "" {
			writer.Header().Set(constants.HeaderWidgetToasts, header)
		}
	}

	respond.HTML(writer, http.StatusOK, swap.Target, swap.Strategy, body.Bytes())
}

func (handler *Handler) fragment(ctx context.Context, target instance, frame widget.Frame) (template.HTML, error) {
	var body bytes.Buffer
	if _, err := target.Render(ctx, &body, frame, widget.Full()); err != nil {
		return "", apperr.Internal(err)
	}
	// Rendered by html/template, already escaped.
	return template.HTML(body.String()), nil
}

// # Lookup

func (handler *Handler) session(request *http.Request) (*Session, error) {
	return handler.registry.Get(request.Context(), chi.URLParam(request, "session"))
}

func (handler *Handler) commentInstance(request *http.Request) (*Session, instance, error) {
	session, err := handler.session(request)
	if err != nil {
		return nil, nil, err
	}
	thread := session.Comments()
	if thread == nil {
		return nil, nil, apperr.NotFound("Comment widget")
	}
	return session, thread, nil
}

func (handler *Handler) ratingInstance(request *http.Request) (*Session, instance, string, error) {
	session, err := handler.session(request)
	if err != nil {
		return nil, nil, "", err
	}
	key := chi.URLParam(request, "instance")
	rating := session.Rating(key)
	if rating == nil {
		return nil, nil, "", apperr.NotFound("Rating widget")
	}
	return session, rating, key, nil
}

func (handler *Handler) commentFrame(ctx context.Context, session *Session) widget.Frame {
	return widget.Frame{
		EventURL:  handler.prefix + "/" + session.ID() + "/comments/events",
		CSRFToken: ctxutil.GetCredentials(ctx).CSRFToken,
	}
}

func (handler *Handler) ratingFrame(ctx context.Context, session *Session, key string) widget.Frame {
	return widget.Frame{
		EventURL:  handler.prefix + "/" + session.ID() + "/ratings/" + key + "/events",
		CSRFToken: ctxutil.GetCredentials(ctx).CSRFToken,
	}
}
