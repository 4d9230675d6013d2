package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mealbridge/mealbridge-backend/api/responses"
	"github.com/mealbridge/mealbridge-backend/internal/realtime"
	pkgerrors "github.com/mealbridge/mealbridge-backend/pkg/errors"
	"github.com/mealbridge/mealbridge-backend/pkg/logger"
)

// keepAliveInterval is how often the stream emits a comment line so proxies
// don't reap idle connections.
const keepAliveInterval = 30 * time.Second

// RealtimeStream opens a server-sent events stream for the authenticated
// user. Redistribution offers and order lifecycle events arrive here.
func RealtimeStream(hub *realtime.Hub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		connID, events := hub.Subscribe(userID)
		defer hub.Unsubscribe(connID)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		if logg != nil {
			logg.Info(logg.WithField(r.Context(), "conn_id", connID.String()), "realtime stream opened")
		}

		keepAlive := time.NewTicker(keepAliveInterval)
		defer keepAlive.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-keepAlive.C:
				fmt.Fprint(w, ": ping\n\n")
				flusher.Flush()
			case msg, open := <-events:
				if !open {
					return
				}
				payload, err := json.Marshal(msg.Data)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, payload)
				flusher.Flush()
			}
		}
	}
}
