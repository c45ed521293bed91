package dashboard

import (
	"encoding/json"
	"log"

	"github.com/confsched/schedsync/internal/sync"
)

// Handler bridges the synchronizer's events onto the broadcast server.
type Handler struct {
	server *Server
	logger *log.Logger
}

// NewHandler creates a handler broadcasting through server.
func NewHandler(server *Server, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{server: server, logger: logger}
}

// Events returns a sync event set wired to the dashboard. Merge it with
// any other event consumers before handing it to the synchronizer.
func (h *Handler) Events() sync.Events {
	return sync.Events{
		Progress: func(text string) {
			h.emit(MessageTypeProgress, ProgressData{Text: text})
		},
		UpdateAvailable: func(version string) {
			h.emit(MessageTypeUpdateAvailable, VersionData{Version: version})
		},
		NoUpdateRequired: func() {
			h.emit(MessageTypeNoUpdateRequired, nil)
		},
		CheckForUpdateFailed: func(reason string) {
			h.emit(MessageTypeCheckFailed, FailureData{Reason: reason})
		},
		UpdateFailed: func(reason string) {
			h.emit(MessageTypeUpdateFailed, FailureData{Reason: reason})
		},
		UpdateDone: func() {
			h.emit(MessageTypeUpdateDone, nil)
		},
		MyScheduleRefreshed: func() {
			h.emit(MessageTypeScheduleRefreshed, nil)
		},
	}
}

func (h *Handler) emit(typ MessageType, data any) {
	msg := Message{Type: typ}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			h.logger.Printf("[dashboard] marshal %s payload: %v", typ, err)
			return
		}
		msg.Data = raw
	}
	h.server.Broadcast(msg)
}
