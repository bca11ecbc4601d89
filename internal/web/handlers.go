package web

import (
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"time"

	"github.com/JonMunkholm/sheetview/internal/core"
	"github.com/JonMunkholm/sheetview/internal/dispatch"
	"github.com/JonMunkholm/sheetview/internal/logging"
	"github.com/JonMunkholm/sheetview/internal/session"
	"github.com/JonMunkholm/sheetview/internal/web/templates"
)

// multipartMemory is how much of an upload is kept in memory before
// spilling to a temp file.
const multipartMemory = 8 << 20

const healthCheckTimeout = 3 * time.Second

var errNoFile = errors.New("no file provided")

// stateResponse is the JSON view of a session.
type stateResponse struct {
	Table   core.Table `json:"table"`
	Rows    int        `json:"rows"`
	Error   string     `json:"error"`
	Code    string     `json:"code,omitempty"`
	Pending string     `json:"pending"`
}

func newStateResponse(snap session.Snapshot, err error) stateResponse {
	table := snap.Table
	if table == nil {
		table = core.Table{}
	}
	return stateResponse{
		Table:   table,
		Rows:    len(table),
		Error:   snap.Error,
		Code:    core.MapError(err).Code,
		Pending: snap.Pending,
	}
}

// handlePage renders the viewer for the current session.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	snap := stateFrom(r.Context()).Snapshot()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := templates.Page(templates.PageData{
		Table:    snap.Table,
		Error:    snap.Error,
		Pending:  snap.Pending,
		Accept:   templates.AcceptList(s.dispatcher.Formats()),
		RowLimit: s.dispatcher.MaxRows(),
	}).Render(r.Context(), w)
	if err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}

// handlePasteChange records textarea edits.
func (s *Server) handlePasteChange(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	st := stateFrom(r.Context())
	st.OnPasteChange(r.PostFormValue("text"))
	snap := st.Snapshot()

	switch {
	case isHTMX(r):
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = templates.ErrorLine(snap.Error).Render(r.Context(), w)
	case wantsJSON(r):
		writeJSON(w, r, stateResponse{Error: snap.Error, Pending: snap.Pending, Rows: len(snap.Table)})
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// handlePasteSubmit processes the pasted text. A text field in the form
// replaces the pending input first, so plain form posts work without the
// page script.
func (s *Server) handlePasteSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	st := stateFrom(r.Context())
	if _, ok := r.PostForm["text"]; ok {
		st.OnPasteChange(r.PostForm.Get("text"))
	}

	s.respondResult(w, r, st, st.OnPasteSubmit(r.Context()))
}

// handleUpload parses an uploaded file into the session table.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			err = errNoFile
		}
		s.respondResult(w, r, st, st.Reject(r.Context(), err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondResult(w, r, st, st.Reject(r.Context(), errNoFile))
		return
	}
	defer file.Close()

	res := st.OnFileSelected(r.Context(), s.dispatcher, dispatch.File{
		Name: header.Filename,
		Size: header.Size,
		Body: file,
	})
	s.respondResult(w, r, st, res)
}

// respondResult answers a table-changing request. HTMX callers get the
// current fragments even when their request was superseded, JSON callers
// get 409 in that case, and browsers are redirected back to the page.
func (s *Server) respondResult(w http.ResponseWriter, r *http.Request, st *session.State, res session.Result) {
	snap := st.Snapshot()

	switch {
	case isHTMX(r):
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = templates.ErrorLine(snap.Error).Render(r.Context(), w)
		_ = templates.Grid(snap.Table).Render(r.Context(), w)
		return
	case wantsJSON(r):
		status := http.StatusOK
		switch {
		case errors.Is(res.Err, session.ErrStale):
			writeJSONStatus(w, r, http.StatusConflict, newStateResponse(snap, nil))
			return
		case !res.OK():
			status = http.StatusUnprocessableEntity
		}
		writeJSONStatus(w, r, status, newStateResponse(snap, res.Err))
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleState returns the session snapshot as JSON.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, newStateResponse(stateFrom(r.Context()).Snapshot(), nil))
}

// handleTableCSV downloads the current table.
func (s *Server) handleTableCSV(w http.ResponseWriter, r *http.Request) {
	table := stateFrom(r.Context()).Snapshot().Table

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="table.csv"`)

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(table); err != nil {
		logging.FromContext(r.Context()).Error("write csv export", "error", err)
	}
}

type healthResponse struct {
	Status     string              `json:"status"`
	Sessions   int                 `json:"sessions"`
	Formats    []string            `json:"formats"`
	RowLimit   int                 `json:"row_limit"`
	Conversion *core.LimiterStatus `json:"conversion,omitempty"`
	PDFService string              `json:"pdf_service"`
	PDFError   string              `json:"pdf_error,omitempty"`
}

// handleHealth reports liveness. A down PDF service degrades the status
// but still answers 200 since the other formats keep working.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:     "ok",
		Sessions:   s.store.Len(),
		Formats:    s.dispatcher.Formats(),
		RowLimit:   s.dispatcher.MaxRows(),
		PDFService: "disabled",
	}
	if s.limiter != nil {
		st := s.limiter.Status()
		resp.Conversion = &st
	}

	if s.pdf != nil && s.pdf.Configured() {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := s.pdf.Health(ctx); err != nil {
			resp.Status = "degraded"
			resp.PDFService = "unreachable"
			resp.PDFError = err.Error()
		} else {
			resp.PDFService = "ok"
		}
	}

	writeJSON(w, r, resp)
}
