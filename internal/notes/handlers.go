package notes

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/ferren/charter"
	"github.com/ferren/charter/eventlog"
	"github.com/ferren/charter/schema"
)

// Request shapes. Bodies validate through `json` + `validate` tags, the
// string channels through `schema` + `validate` tags.

type createNoteBody struct {
	Title string   `json:"title" validate:"required,min=3,max=120"`
	Body  string   `json:"body" validate:"required"`
	Tags  []string `json:"tags" validate:"max=8"`
}

type listNotesQuery struct {
	Limit int    `schema:"limit" validate:"min=0,max=100"`
	Tag   string `schema:"tag"`
}

type noteParams struct {
	ID string `schema:"id" validate:"required,uuid"`
}

type clientHeaders struct {
	Client string `schema:"x-client-id" validate:"required"`
}

// deleteReceipt is the Delete response shape.
type deleteReceipt struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// Handlers builds the note endpoints as charter contracts over a Store.
type Handlers struct {
	store *Store
}

// NewHandlers wires handlers to store.
func NewHandlers(store *Store) *Handlers {
	return &Handlers{store: store}
}

// Create handles POST /notes. The body and the client header are
// validated; a created note comes back in the envelope.
func (h *Handlers) Create(a *charter.Adapter) echo.HandlerFunc {
	return charter.Build(a, charter.Contract[charter.RawQuery, charter.RawParams, createNoteBody, clientHeaders, Note]{
		Body:    schema.JSON[createNoteBody](),
		Headers: schema.Headers[clientHeaders](),

		Handle: func(c *charter.Context, in charter.Inputs[charter.RawQuery, charter.RawParams, createNoteBody, clientHeaders]) (Note, error) {
			note := h.store.Insert(in.Body.Title, in.Body.Body, in.Body.Tags)

			c.Log(eventlog.Info("note created").
				WithTags("notes").
				WithMeta("note_id", note.ID).
				WithMeta("client", in.Headers.Client))

			return note, nil
		},

		BeforeResponse: func(ctx context.Context, note Note) error {
			// Tag the APM transaction with the created note so traces can
			// be searched by it. Nothing to do without an agent.
			if txn := newrelic.FromContext(ctx); txn != nil {
				txn.AddAttribute("note.id", note.ID)
			}
			return nil
		},

		OnUnexpectedError: noticeUnexpected,
	})
}

// List handles GET /notes with optional limit and tag filters.
func (h *Handlers) List(a *charter.Adapter) echo.HandlerFunc {
	return charter.Build(a, charter.Contract[listNotesQuery, charter.RawParams, charter.RawBody, charter.RawHeaders, []Note]{
		Query: schema.Query[listNotesQuery](),

		Handle: func(c *charter.Context, in charter.Inputs[listNotesQuery, charter.RawParams, charter.RawBody, charter.RawHeaders]) ([]Note, error) {
			result := h.store.List(in.Query.Limit, in.Query.Tag)

			c.Log(eventlog.Debug("notes listed").
				WithMeta("count", strconv.Itoa(len(result))))

			return result, nil
		},

		OnUnexpectedError: noticeUnexpected,
	})
}

// Get handles GET /notes/:id. A well-formed but unknown ID is a business
// rejection, not a validation failure.
func (h *Handlers) Get(a *charter.Adapter) echo.HandlerFunc {
	return charter.Build(a, charter.Contract[charter.RawQuery, noteParams, charter.RawBody, charter.RawHeaders, Note]{
		Params: schema.Params[noteParams](),

		Handle: func(c *charter.Context, in charter.Inputs[charter.RawQuery, noteParams, charter.RawBody, charter.RawHeaders]) (Note, error) {
			note, ok := h.store.Get(in.Params.ID)
			if !ok {
				return Note{}, c.FailWithCode("note does not exist", http.StatusNotFound)
			}
			return note, nil
		},

		OnUnexpectedError: noticeUnexpected,
	})
}

// Delete handles DELETE /notes/:id. The client header is required so
// deletions are attributable in the event log.
func (h *Handlers) Delete(a *charter.Adapter) echo.HandlerFunc {
	return charter.Build(a, charter.Contract[charter.RawQuery, noteParams, charter.RawBody, clientHeaders, deleteReceipt]{
		Params:  schema.Params[noteParams](),
		Headers: schema.Headers[clientHeaders](),

		Handle: func(c *charter.Context, in charter.Inputs[charter.RawQuery, noteParams, charter.RawBody, clientHeaders]) (deleteReceipt, error) {
			if !h.store.Delete(in.Params.ID) {
				c.Log(eventlog.Warn("delete of unknown note").
					WithMeta("note_id", in.Params.ID).
					WithMeta("client", in.Headers.Client))
				return deleteReceipt{}, c.Fail("note does not exist")
			}

			c.Log(eventlog.Info("note deleted").
				WithTags("notes").
				WithMeta("note_id", in.Params.ID).
				WithMeta("client", in.Headers.Client))

			return deleteReceipt{ID: in.Params.ID, Deleted: true}, nil
		},

		OnUnexpectedError: noticeUnexpected,
	})
}

// noticeUnexpected forwards adapter-classified unexpected errors to the
// current APM transaction. The adapter already guarantees the caller only
// ever sees the generic message; this hook is where the real error
// becomes visible to operators.
func noticeUnexpected(ctx context.Context, err error) {
	if txn := newrelic.FromContext(ctx); txn != nil {
		txn.NoticeError(nrpkgerrors.Wrap(err))
	}
}
