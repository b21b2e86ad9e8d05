package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/runoshun/taskboard/internal/codec"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/recovery"
	"github.com/runoshun/taskboard/internal/search"
	"github.com/runoshun/taskboard/internal/usecase"
)

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a use case error to a status code.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var importErr *codec.ImportError
	switch {
	case errors.Is(err, domain.ErrTaskNotFound),
		errors.Is(err, domain.ErrColumnNotFound),
		errors.Is(err, domain.ErrTagNotFound),
		errors.Is(err, domain.ErrSubtaskNotFound),
		errors.Is(err, domain.ErrNoteNotFound),
		errors.Is(err, domain.ErrAttachmentMissing),
		errors.Is(err, domain.ErrNoRecovery):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAmbiguousID),
		errors.Is(err, domain.ErrEmptyTitle),
		errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrEmptyContent),
		errors.Is(err, domain.ErrEmptyQuery),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrInvalidAttachment),
		errors.Is(err, domain.ErrNoFieldsToUpdate),
		errors.As(err, &importErr):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotReady), errors.Is(err, domain.ErrStorageClosed):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error(logCategory, err.Error())
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

// handleHealth returns a JSON health check response.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"ready":  s.c.Store.Ready(),
		"source": s.c.Store.Source(),
	})
}

// columnJSON is a column with its ordered tasks.
type columnJSON struct {
	domain.Column
	Tasks []domain.Task `json:"tasks"`
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	out, err := s.c.ShowBoardUseCase().Execute(r.Context(), usecase.ShowBoardInput{
		Column: r.URL.Query().Get("column"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	cols := make([]columnJSON, len(out.Columns))
	for i, ct := range out.Columns {
		cols[i] = columnJSON{Column: ct.Column, Tasks: ct.Tasks}
		if cols[i].Tasks == nil {
			cols[i].Tasks = []domain.Task{}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"columns": cols,
		"tags":    out.Board.Tags,
	})
}

// hitJSON is one search result.
type hitJSON struct {
	Task     domain.Task         `json:"task"`
	Column   string              `json:"column"`
	Score    int                 `json:"score"`
	Matches  []search.FieldMatch `json:"matches"`
	Preview  string              `json:"preview"`
	Segments []search.Segment    `json:"segments"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	limit := s.c.AppConfig.Search.Limit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			badRequest(w, fmt.Errorf("invalid limit: %q", v))
			return
		}
		limit = n
	}
	out, err := s.c.SearchTasksUseCase().Execute(r.Context(), usecase.SearchTasksInput{
		Query: r.URL.Query().Get("q"),
		Limit: limit,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	hits := make([]hitJSON, len(out.Hits))
	for i, h := range out.Hits {
		hits[i] = hitJSON{
			Task:     h.Task,
			Column:   h.ColumnTitle,
			Score:    h.Score,
			Matches:  h.Matches,
			Preview:  h.Preview,
			Segments: search.Segments(h.Best.Value, h.Best.Ranges),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"total": out.Total, "hits": hits})
}

// Columns

type titleRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleAddColumn(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	col, err := s.c.AddColumnUseCase().Execute(r.Context(), usecase.AddColumnInput{Title: req.Title})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, col)
}

func (s *Server) handleRenameColumn(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	col, err := s.c.RenameColumnUseCase().Execute(r.Context(), usecase.RenameColumnInput{
		Column: chi.URLParam(r, "column"),
		Title:  req.Title,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, col)
}

func (s *Server) handleDeleteColumn(w http.ResponseWriter, r *http.Request) {
	out, err := s.c.DeleteColumnUseCase().Execute(r.Context(), usecase.DeleteColumnInput{
		Column: chi.URLParam(r, "column"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"column": out.Column, "deletedTasks": out.DeletedTasks})
}

func (s *Server) handleOrderColumns(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Columns []string `json:"columns"`
	}
	if err := decode(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	cols, err := s.c.OrderColumnsUseCase().Execute(r.Context(), usecase.OrderColumnsInput{Columns: req.Columns})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cols)
}

func (s *Server) handleSetColumnTasks(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status   *string `json:"status"`
		Priority *string `json:"priority"`
	}
	if err := decode(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	n, err := s.c.SetColumnTasksUseCase().Execute(r.Context(), usecase.SetColumnTasksInput{
		Column:   chi.URLParam(r, "column"),
		Status:   req.Status,
		Priority: req.Priority,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": n})
}

// Tasks

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Column      string   `json:"column"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Priority    string   `json:"priority"`
		Tags        []string `json:"tags"`
	}
	if err := decode(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	out, err := s.c.NewTaskUseCase().Execute(r.Context(), usecase.NewTaskInput{
		Column:      req.Column,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Tags:        req.Tags,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out.Task)
}

func (s *Server) handleShowTask(w http.ResponseWriter, r *http.Request) {
	out, err := s.c.ShowTaskUseCase().Execute(r.Context(), usecase.ShowTaskInput{TaskID: chi.URLParam(r, "task")})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"task":   out.Task,
		"column": out.Column,
		"tags":   out.TagNames,
	})
}

func (s *Server) handleEditTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Status      *string  `json:"status"`
		Priority    *string  `json:"priority"`
		AddTags     []string `json:"addTags"`
		RemoveTags  []string `json:"removeTags"`
	}
	if err := decode(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	out, err := s.c.EditTaskUseCase().Execute(r.Context(), usecase.EditTaskInput{
		TaskID:      chi.URLParam(r, "task"),
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AddTags:     req.AddTags,
		RemoveTags:  req.RemoveTags,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out.Task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	out, err := s.c.DeleteTaskUseCase().Execute(r.Context(), usecase.DeleteTaskInput{TaskID: chi.URLParam(r, "task")})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out.Task)
}

func (s *Server) handleMoveTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Position *int   `json:"position"`
		Column   string `json:"column"`
	}
	if err := decode(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	out, err := s.c.MoveTaskUseCase().Execute(r.Context(), usecase.MoveTaskInput{
		TaskID:   chi.URLParam(r, "task"),
		Column:   req.Column,
		Position: req.Position,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out.Task)
}

// handleAddItem adds a subtask ({"text"}), note ({"text"}) or link
// ({"text": url, "name"}).
func (s *Server) handleAddItem(kind usecase.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
			Name string `json:"name"`
		}
		if err := decode(r, &req); err != nil {
			badRequest(w, err)
			return
		}
		out, err := s.c.AddTaskItemUseCase().Execute(r.Context(), usecase.AddTaskItemInput{
			TaskID: chi.URLParam(r, "task"),
			Kind:   kind,
			Text:   req.Text,
			Name:   req.Name,
		})
		if err != nil {
			s.writeError(w, err)
			return
		}
		var item any
		switch {
		case out.Subtask != nil:
			item = out.Subtask
		case out.Note != nil:
			item = out.Note
		default:
			item = out.Attachment
		}
		writeJSON(w, http.StatusCreated, item)
	}
}

func (s *Server) handleRemoveItem(kind usecase.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := s.c.RemoveTaskItemUseCase().Execute(r.Context(), usecase.TaskItemInput{
			TaskID: chi.URLParam(r, "task"),
			Kind:   kind,
			Item:   chi.URLParam(r, "item"),
		})
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
	}
}

func (s *Server) handleToggleSubtask(w http.ResponseWriter, r *http.Request) {
	sub, err := s.c.ToggleSubtaskUseCase().Execute(r.Context(), usecase.TaskItemInput{
		TaskID: chi.URLParam(r, "task"),
		Kind:   usecase.ItemSubtask,
		Item:   chi.URLParam(r, "item"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// Tags

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	usage, err := s.c.ListTagsUseCase().Execute(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	type tagJSON struct {
		domain.Tag
		Tasks int `json:"tasks"`
	}
	tags := make([]tagJSON, len(usage))
	for i, u := range usage {
		tags[i] = tagJSON{Tag: u.Tag, Tasks: u.Tasks}
	}
	writeJSON(w, http.StatusOK, tags)
}

func (s *Server) handleAddTag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := decode(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	tag, err := s.c.AddTagUseCase().Execute(r.Context(), usecase.AddTagInput{Name: req.Name, Color: req.Color})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

func (s *Server) handleEditTag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
	}
	if err := decode(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	tag, err := s.c.EditTagUseCase().Execute(r.Context(), usecase.EditTagInput{
		Tag:   chi.URLParam(r, "tag"),
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	tag, err := s.c.DeleteTagUseCase().Execute(r.Context(), usecase.DeleteTagInput{Tag: chi.URLParam(r, "tag")})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// Data

// handleExport returns the board as a gzip export download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, name, err := s.c.ExportBytesUseCase().Execute(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/gzip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleImport replaces the board with the export file in the request body.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "import too large"})
			return
		}
		badRequest(w, err)
		return
	}
	out, err := s.c.ImportBoardUseCase().Execute(r.Context(), usecase.ImportBoardInput{Data: data})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// tierJSON is the JSON form of recovery.TierStatus.
type tierJSON struct {
	Timestamp  *time.Time `json:"timestamp,omitempty"`
	Tier       string     `json:"tier"`
	Error      string     `json:"error,omitempty"`
	Size       int        `json:"size"`
	Present    bool       `json:"present"`
	ChecksumOK bool       `json:"checksumOk"`
	Valid      bool       `json:"valid"`
}

func tierStatusJSON(st recovery.TierStatus) tierJSON {
	t := tierJSON{
		Tier:       st.Tier,
		Size:       st.Size,
		Present:    st.Present,
		ChecksumOK: st.ChecksumOK,
		Valid:      st.Valid,
	}
	if !st.Timestamp.IsZero() {
		ts := st.Timestamp
		t.Timestamp = &ts
	}
	if st.Err != nil {
		t.Error = st.Err.Error()
	}
	return t
}

func (s *Server) handleBackupStatus(w http.ResponseWriter, r *http.Request) {
	statuses := s.c.BackupStatusUseCase().Execute(r.Context())
	out := make([]tierJSON, len(statuses))
	for i, st := range statuses {
		out[i] = tierStatusJSON(st)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRunBackup(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.c.RunBackupUseCase().Execute(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	type resultJSON struct {
		Tier  string `json:"tier"`
		Error string `json:"error,omitempty"`
		OK    bool   `json:"ok"`
	}
	results := make([]resultJSON, len(outcome.Results))
	for i, res := range outcome.Results {
		results[i] = resultJSON{Tier: res.Tier, OK: res.OK()}
		if res.Err != nil {
			results[i].Error = res.Err.Error()
		}
	}
	status := http.StatusOK
	if !outcome.Success {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]any{"success": outcome.Success, "results": results})
}

func (s *Server) handleClearBackups(w http.ResponseWriter, r *http.Request) {
	s.c.ClearBackupsUseCase().Execute(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecover(w http.ResponseWriter, r *http.Request) {
	out, err := s.c.RecoverBoardUseCase().Execute(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"source":    out.Source,
		"timestamp": out.Timestamp,
		"columns":   out.Summary.Columns,
		"tasks":     out.Summary.Tasks,
		"tags":      out.Summary.Tags,
	})
}
