package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jonathan/job-intake/internal/normalize"
	"github.com/jonathan/job-intake/internal/schemas"
	"github.com/jonathan/job-intake/internal/server/middleware"
	"github.com/jonathan/job-intake/internal/session"
	"github.com/jonathan/job-intake/internal/types"
)

// ParseRequest is the body of POST /parse-input.
type ParseRequest struct {
	Input string `json:"input" validate:"required"`
}

// DebugResponse is returned by POST /parse-input?debug=true.
type DebugResponse struct {
	Session    string            `json:"session"`
	Record     *normalize.Record `json:"record"`
	Transcript []session.Round   `json:"transcript"`
}

// SchemaResponse describes the active field set.
type SchemaResponse struct {
	Name       string            `json:"name"`
	Fields     []types.FieldSpec `json:"fields"`
	JSONSchema map[string]any    `json:"json_schema"`
}

// decodeParseRequest reads and validates the request body.
func (s *Server) decodeParseRequest(r *http.Request) (string, error) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", &ErrValidation{Field: "body", Message: "Invalid request body: " + err.Error()}
	}
	req.Input = strings.TrimSpace(req.Input)
	if err := s.validate.Struct(req); err != nil {
		return "", &ErrValidation{Field: "input", Message: "No input provided."}
	}
	return req.Input, nil
}

// parse runs one extraction round over input and finalizes the record.
// The session is returned even on failure so callers can report its transcript.
func (s *Server) parse(ctx context.Context, input string) (*normalize.Record, *session.Session, error) {
	sess := session.New(s.schema, s.extractor, s.sessionOpts)
	ext, err := session.RunOnce(ctx, sess, input)
	if err != nil {
		return nil, sess, err
	}

	rec, err := normalize.Extraction(ext, s.schema)
	if err != nil {
		return nil, sess, err
	}
	data, err := rec.MarshalJSON()
	if err != nil {
		return nil, sess, err
	}
	if err := schemas.ValidateRecord(s.schema, data); err != nil {
		return nil, sess, err
	}

	if s.store != nil {
		if err := s.store.Save(ctx, rec); err != nil {
			return rec, sess, err
		}
	}
	return rec, sess, nil
}

// handleParseInput turns free text into a finalized record in a single round.
func (s *Server) handleParseInput(w http.ResponseWriter, r *http.Request) {
	input, err := s.decodeParseRequest(r)
	if err != nil {
		s.failure(w, err)
		return
	}

	rec, sess, err := s.parse(r.Context(), input)
	s.logger.Infow("parse-input",
		"session", sess.ID(),
		"client", middleware.Client(r),
		"state", sess.State(),
		"error", errString(err),
	)
	if err != nil {
		s.failure(w, err)
		return
	}

	if r.URL.Query().Get("debug") == "true" {
		s.jsonResponse(w, http.StatusOK, DebugResponse{
			Session:    sess.ID(),
			Record:     rec,
			Transcript: sess.Transcript(),
		})
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handleParseInputStream is handleParseInput reported as server-sent events:
// one "round" event per transcript entry, then "record" or "error", then "complete".
func (s *Server) handleParseInputStream(w http.ResponseWriter, r *http.Request) {
	input, err := s.decodeParseRequest(r)
	if err != nil {
		s.failure(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	rec, sess, err := s.parse(r.Context(), input)
	for _, round := range sess.Transcript() {
		if werr := sse.WriteEvent("round", round); werr != nil {
			s.logger.Warnw("error writing SSE event", "session", sess.ID(), "error", werr)
			return
		}
	}
	if err != nil {
		sse.WriteError(err.Error())
	} else if werr := sse.WriteEvent("record", rec); werr != nil {
		s.logger.Warnw("error writing SSE event", "session", sess.ID(), "error", werr)
		return
	}
	sse.WriteComplete(sess.ID(), string(sess.State()))
}

// handleSchema returns the active field set and its JSON Schema.
func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, SchemaResponse{
		Name:       s.schema.Name(),
		Fields:     s.schema.Fields(),
		JSONSchema: schemas.JSONSchemaFor(s.schema),
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// failure writes err with the status HTTPStatus picks for it.
func (s *Server) failure(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	body := map[string]any{"error": err.Error()}

	var (
		validation *ErrValidation
		incomplete *normalize.IncompleteRecordError
	)
	if errors.As(err, &validation) {
		body["error"] = validation.Message
	}
	if errors.As(err, &incomplete) {
		body["missing"] = incomplete.Missing
	}
	if status >= http.StatusInternalServerError {
		s.logger.Errorw("request failed", "status", status, "error", err)
	}
	s.jsonResponse(w, status, body)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
