// Copyright (C) 2025 Bud Millwood
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package statusweb

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"sgready/internal/events"
	"sgready/pkg/logger"
)

type webAppState struct {
	Connected bool   `json:"connected"`
	Mode      int    `json:"mode"`
	Excess    bool   `json:"excess"`
	Remaining uint32 `json:"remaining"`
}

type clientSync struct {
	clients map[*websocket.Conn]bool
	mutex   sync.Mutex
}

var clients = clientSync{clients: make(map[*websocket.Conn]bool)}

func (c *clientSync) broadcast(pm *websocket.PreparedMessage, log *logger.Logger) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for ws := range c.clients {
		if err := ws.WritePreparedMessage(pm); err != nil {
			log.Error("failed to write message: %v", err)
			ws.Close()
			delete(c.clients, ws)
		}
	}
}

func (c *clientSync) add(ws *websocket.Conn) {
	c.mutex.Lock()
	c.clients[ws] = true
	c.mutex.Unlock()
}

func (c *clientSync) remove(ws *websocket.Conn) {
	c.mutex.Lock()
	delete(c.clients, ws)
	c.mutex.Unlock()
}

func (c *clientSync) closeAll() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for ws := range c.clients {
		ws.Close()
		delete(c.clients, ws)
	}
}

func (s *Service) buildHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.servePage)
	mux.HandleFunc("/ws", s.serveWebSockets())
	return mux
}

func (s *Service) broadcast(update events.StatusUpdate) {
	state := webAppState{
		Connected: update.Connected,
		Mode:      update.Mode,
		Excess:    update.Excess,
		Remaining: update.Remaining,
	}
	data, err := json.Marshal(state)
	if err != nil {
		s.log.Error("failed to marshal broadcast: %v", err)
		return
	}
	pm, err := websocket.NewPreparedMessage(websocket.TextMessage, data)
	if err != nil {
		s.log.Error("failed to prepare message: %v", err)
		return
	}
	clients.broadcast(pm, s.log)
}

func (s *Service) serveWebSockets() http.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return false
			}
			if strings.Contains(origin, "localhost") {
				return true
			}
			return strings.Contains(origin, r.Host)
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.log.Error("failed to upgrade websocket: %v", err)
			return
		}
		clients.add(ws)
		defer func() {
			clients.remove(ws)
			ws.Close()
		}()

		// send the last known state right away
		if ev, ok := s.evBus.GetLast(events.TopicStatus); ok {
			update := ev.(events.StatusUpdate)
			if err := ws.WriteJSON(webAppState{
				Connected: update.Connected,
				Mode:      update.Mode,
				Excess:    update.Excess,
				Remaining: update.Remaining,
			}); err != nil {
				s.log.Error("failed to send initial state: %v", err)
				return
			}
		}

		// clients are read-only; drain until they hang up
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.log.Debug("ws read: %v", err)
				}
				return
			}
		}
	}
}

func (s *Service) servePage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(statusPage))
}

const statusPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>SG Ready</title>
  <style>
    body { font-family: sans-serif; margin: 2em; background: #f9f9f9; color: #333; }
    table { border-collapse: collapse; margin-top: 1em; }
    th, td { border: 1px solid #ccc; padding: 0.6em 1em; text-align: left; }
    th { background: #eee; }
    .on { color: green; } .off { color: red; }
  </style>
</head>
<body>
  <h1>SG Ready Controller</h1>
  <table>
    <tr><th>MQTT</th><td id="connected">-</td></tr>
    <tr><th>SG Mode</th><td id="mode">-</td></tr>
    <tr><th>Excess</th><td id="excess">-</td></tr>
    <tr><th>Remaining</th><td id="remaining">-</td></tr>
  </table>
  <script>
    const proto = location.protocol === "https:" ? "wss" : "ws";
    const ws = new WebSocket(proto + "://" + location.host + "/ws");
    ws.onmessage = (ev) => {
      const st = JSON.parse(ev.data);
      const conn = document.getElementById("connected");
      conn.textContent = st.connected ? "connected" : "disconnected";
      conn.className = st.connected ? "on" : "off";
      document.getElementById("mode").textContent = st.mode;
      document.getElementById("excess").textContent = st.excess;
      document.getElementById("remaining").textContent = st.remaining + " s";
    };
  </script>
</body>
</html>
`
