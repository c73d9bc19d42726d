package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dasolkim7/speaker-diarization/internal/pipeline"
	"github.com/dasolkim7/speaker-diarization/pkg/log"
)

// handleRunStream runs the pipeline and streams one event per step change,
// ending with a "done" or "error" event.
func (s *Server) handleRunStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	in, err := pipeline.ParseInput(q.Get("url"), q.Get("source"), q.Get("provider"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failure(err, nil))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	send := func(event string, data any) bool {
		payload, err := json.Marshal(data)
		if err != nil {
			log.Error("Failed to encode %s event: %v", event, err)
			return false
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	report, err := s.runner.Run(r.Context(), in, func(e pipeline.Event) {
		send(e.Step.String(), e)
	})
	if err != nil {
		send("error", failure(err, report))
		return
	}
	send("done", report)
}
