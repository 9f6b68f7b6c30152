// Package feed publishes world snapshots over SSE for out-of-process
// panels and tooling to watch.
package feed

import (
	"encoding/json"
	"net/http"

	"github.com/r3labs/sse/v2"
	"go.uber.org/zap"

	"github.com/sabamiso/gatan/world"
)

type Server struct {
	w *world.World
	s *sse.Server
}

func NewServer(w *world.World) *Server {
	s := &Server{
		w: w,
		s: sse.New(),
	}
	go s.forward()
	return s
}

func (s *Server) forward() {
	s.s.CreateStream("snapshot")
	defer s.s.RemoveStream("snapshot")
	ch := make(chan world.Snapshot)
	s.w.SnapshotMux.Subscribe("feed", ch)
	defer s.w.SnapshotMux.Unsubscribe(ch)
	for snap := range ch {
		data, err := json.Marshal(snap)
		if err != nil {
			zap.S().Errorw("marshal snapshot", "err", err)
			continue
		}
		s.s.TryPublish("snapshot", &sse.Event{
			Data: data,
		})
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.s.ServeHTTP(w, r)
}
