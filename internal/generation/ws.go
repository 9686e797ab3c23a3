package generation

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/clil-studio/internal/api"
	"github.com/ziadkadry99/clil-studio/internal/lesson"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsChatHandler serves a streaming variant of /chat. Each client frame
// carries a message and its history; the reply arrives as chunk frames
// followed by one done frame holding the whole reply. A frame without
// context reuses the last context the connection sent.
func wsChatHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			svc.log.Warn("websocket upgrade", "error", err)
			return
		}
		defer conn.Close()

		var chatCtx api.ChatContext
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					svc.log.Warn("websocket read", "error", err)
				}
				return
			}

			var in api.ChatFrame
			if err := json.Unmarshal(msg, &in); err != nil {
				sendFrame(svc, conn, api.ChatFrame{Type: api.FrameError, Content: "invalid message format"})
				continue
			}
			if strings.TrimSpace(in.Message) == "" {
				sendFrame(svc, conn, api.ChatFrame{Type: api.FrameError, Content: "message is required"})
				continue
			}
			if in.Context != nil {
				chatCtx = *in.Context
			}

			var reply strings.Builder
			err = svc.ChatStream(r.Context(), api.ChatRequest{
				Message: in.Message,
				Context: chatCtx,
				History: in.History,
			}, func(chunk string) error {
				reply.WriteString(chunk)
				return conn.WriteJSON(api.ChatFrame{Type: api.FrameChunk, Content: chunk})
			})
			if err != nil {
				sendFrame(svc, conn, api.ChatFrame{Type: api.FrameError, Content: err.Error()})
				continue
			}
			sendFrame(svc, conn, api.ChatFrame{
				Type:    api.FrameDone,
				Content: reply.String(),
				History: append(in.History,
					lesson.ChatMessage{Role: lesson.RoleUser, Content: in.Message},
					lesson.ChatMessage{Role: lesson.RoleAssistant, Content: reply.String()}),
			})
		}
	}
}

func sendFrame(svc *Service, conn *websocket.Conn, f api.ChatFrame) {
	if err := conn.WriteJSON(f); err != nil {
		svc.log.Warn("websocket write", "error", err)
	}
}
