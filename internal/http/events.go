package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gastos/internal/core"
	"gastos/internal/log"
)

// handleEvents streams one "snapshot" event per change of the selected
// month's view, starting with the current one. A slow client only ever
// receives the latest snapshot; intermediate ones are dropped.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// The stream outlives the server's write timeout.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		writeError(w, r, err)
		return
	}

	logger := log.FromContext(r.Context()).WithComponent(log.ComponentEvents)

	updates := make(chan core.Snapshot, 1)
	cancel := s.ledger.Subscribe(func(snap core.Snapshot) {
		select {
		case updates <- snap:
		default:
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- snap:
			default:
			}
		}
	})
	defer cancel()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		logger.Warn("Event stream not supported", log.FieldError, err)
		return
	}

	heartbeat := time.NewTicker(s.heartbeat)
	defer heartbeat.Stop()

	logger.Debug("Event stream opened")
	defer logger.Debug("Event stream closed")

	for {
		select {
		case <-r.Context().Done():
			return
		case snap := <-updates:
			if err := writeSnapshotEvent(w, toSummaryDTO(snap, s.formatter)); err != nil {
				logger.Debug("Event write failed", log.FieldError, err)
				return
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeSnapshotEvent(w http.ResponseWriter, summary summaryDTO) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data)
	return err
}
