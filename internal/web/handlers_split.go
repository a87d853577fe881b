package web

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/splitter/internal/core"
	"github.com/JonMunkholm/splitter/internal/web/templates"
)

// multipartOverhead is the room left for form fields and boundaries on top
// of the file size limit.
const multipartOverhead = 1 << 20

// splitResponse is the JSON view of a split result.
type splitResponse struct {
	ID           string         `json:"id"`
	SourceName   string         `json:"sourceName"`
	Format       string         `json:"format"`
	PartCount    int            `json:"partCount"`
	DataRowCount int            `json:"dataRowCount"`
	ArchiveName  string         `json:"archiveName"`
	ArchiveURL   string         `json:"archiveUrl"`
	Files        []fileResponse `json:"files"`
	CreatedAt    time.Time      `json:"createdAt"`
}

type fileResponse struct {
	Name      string `json:"name"`
	PartIndex int    `json:"partIndex"`
	DataRows  int    `json:"dataRows"`
	Size      int    `json:"size"`
	URL       string `json:"url"`
}

// handleHealth reports liveness and split load.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.service.LimiterStatus()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"activeSplits":   status.Active,
		"maxConcurrent":  status.MaxConcurrent,
		"availableSlots": status.Available,
	})
}

// handleIndex renders the upload form with the session's latest result.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	params := s.pageParams()
	if result, ok := s.service.LatestResult(existingSession(r)); ok {
		v := resultView(result, "")
		params.Result = &v
	}
	renderPage(w, r, http.StatusOK, params)
}

// handleSplitForm splits the file posted by the upload form and renders the
// page with the result, or with the error above the form.
func (s *Server) handleSplitForm(w http.ResponseWriter, r *http.Request) {
	owner := session(w, r)
	params := s.pageParams()

	result, err := s.split(w, r, owner)
	if err != nil {
		status := statusFor(err)
		msg := logError(r, err, status)
		params.Error = &templates.ErrorView{Message: msg.Message, Action: msg.Action, Code: msg.Code}
		// A failed split leaves the previous result in place.
		if prior, ok := s.service.LatestResult(owner); ok {
			v := resultView(prior, "")
			params.Result = &v
		}
		renderPage(w, r, status, params)
		return
	}

	v := resultView(result, "")
	params.Result = &v
	renderPage(w, r, http.StatusOK, params)
}

// handleAPISplit splits a multipart upload and returns the result as JSON.
func (s *Server) handleAPISplit(w http.ResponseWriter, r *http.Request) {
	result, err := s.split(w, r, apiOwner(r))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusCreated, toSplitResponse(result, "/api"))
}

// handleGetSplit returns a stored split result.
func (s *Server) handleGetSplit(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Result(chi.URLParam(r, "splitID"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, toSplitResponse(result, "/api"))
}

// handleDownloadFile serves one part of a split.
func (s *Server) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "splitID")
	name := pathParam(r, "name")

	result, err := s.service.Result(id)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	blob, err := result.File(name)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	serveAttachment(w, blob.Name, result.Format.ContentType(), blob.Data)
}

// handleDownloadArchive serves the zip of all parts, building it on first request.
func (s *Server) handleDownloadArchive(w http.ResponseWriter, r *http.Request) {
	name, payload, err := s.service.Archive(chi.URLParam(r, "splitID"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	serveAttachment(w, name, "application/zip", payload)
}

// handleHistory lists recent splits recorded in the database.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", s.cfg.History.ListLimit)
	if limit > s.cfg.History.ListLimit {
		limit = s.cfg.History.ListLimit
	}

	entries, err := s.service.History(r.Context(), limit)
	if err != nil {
		respondError(w, r, fmt.Errorf("split_history: %w", err), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []core.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// split reads the multipart form and runs the split for owner.
func (s *Server) split(w http.ResponseWriter, r *http.Request, owner string) (*core.SplitResult, error) {
	maxSize := s.service.MaxFileSize()
	if maxSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return nil, fmt.Errorf("request body too large: %w", err)
		}
		return nil, fmt.Errorf("%w: invalid form: %v", core.ErrInvalidInput, err)
	}
	defer r.MultipartForm.RemoveAll()

	parts, err := s.parseParts(r.FormValue("parts"))
	if err != nil {
		return nil, err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, errNoFile
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	ctx := WithRequestMetadata(r.Context(), r)
	return s.service.Split(ctx, core.SplitRequest{
		FileName:  header.Filename,
		Data:      data,
		PartCount: parts,
		Owner:     owner,
	})
}

// parseParts reads the part count, defaulting when the field is blank.
func (s *Server) parseParts(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.service.DefaultParts(), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: part count must be a positive integer, got %q", core.ErrInvalidInput, raw)
	}
	return n, nil
}

func (s *Server) pageParams() templates.SplitPageParams {
	p := templates.SplitPageParams{
		DefaultParts: s.service.DefaultParts(),
		MaxParts:     s.cfg.Split.MaxParts,
	}
	if size := s.service.MaxFileSize(); size > 0 {
		p.MaxFileSize = datasize.ByteSize(size).HumanReadable()
	}
	return p
}

func renderPage(w http.ResponseWriter, r *http.Request, status int, p templates.SplitPageParams) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.SplitPage(p).Render(r.Context(), w); err != nil {
		logError(r, fmt.Errorf("render page: %w", err), http.StatusInternalServerError)
	}
}

// serveAttachment writes data as a download named name.
func serveAttachment(w http.ResponseWriter, name, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, no-store")
	w.Write(data)
}

// toSplitResponse builds the JSON view; prefix selects the URL namespace.
func toSplitResponse(r *core.SplitResult, prefix string) splitResponse {
	resp := splitResponse{
		ID:           r.ID,
		SourceName:   r.SourceName,
		Format:       string(r.Format),
		PartCount:    r.PartCount,
		DataRowCount: r.DataRowCount,
		ArchiveName:  r.ArchiveName,
		ArchiveURL:   archiveURL(prefix, r.ID),
		Files:        make([]fileResponse, len(r.Files)),
		CreatedAt:    r.CreatedAt,
	}
	for i, f := range r.Files {
		resp.Files[i] = fileResponse{
			Name:      f.Name,
			PartIndex: f.PartIndex,
			DataRows:  f.DataRows,
			Size:      len(f.Data),
			URL:       fileURL(prefix, r.ID, f.Name),
		}
	}
	return resp
}

func resultView(r *core.SplitResult, prefix string) templates.ResultView {
	v := templates.ResultView{
		ID:           r.ID,
		SourceName:   r.SourceName,
		PartCount:    r.PartCount,
		DataRowCount: r.DataRowCount,
		ArchiveName:  r.ArchiveName,
		ArchiveURL:   archiveURL(prefix, r.ID),
		Files:        make([]templates.FileView, len(r.Files)),
	}
	for i, f := range r.Files {
		v.Files[i] = templates.FileView{
			Name:     f.Name,
			URL:      fileURL(prefix, r.ID, f.Name),
			DataRows: f.DataRows,
			Size:     datasize.ByteSize(len(f.Data)).HumanReadable(),
		}
	}
	return v
}

func fileURL(prefix, id, name string) string {
	return prefix + "/split/" + url.PathEscape(id) + "/files/" + url.PathEscape(name)
}

func archiveURL(prefix, id string) string {
	return prefix + "/split/" + url.PathEscape(id) + "/archive"
}

// pathParam returns a decoded URL parameter. chi matches on the raw path
// when the request path carries escapes that differ from the default
// encoding, so the value is unescaped only in that case.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
