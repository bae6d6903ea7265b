package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"github.com/goliatone/go-roleform/pkg/rules"
	"github.com/goliatone/go-roleform/pkg/session"
)

// handleWebSocket upgrades the connection and runs the message loop for one
// session. The current snapshot is sent first.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket accept", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	s.send(ctx, conn, ServerMessage{Type: msgSnapshot, Data: sess.Snapshot()})

	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if status := websocket.CloseStatus(err); status != -1 {
				s.logger.Debug("websocket closed", zap.String("session", sess.ID()), zap.Int("status", int(status)))
			}
			return
		}

		switch msg.Type {
		case msgChange:
			s.handleSocketChange(ctx, conn, sess, msg)
		case msgSubmit:
			payload, err := s.submit(ctx, sess)
			if err != nil {
				s.sendSessionError(ctx, conn, msg.ID, err)
				continue
			}
			s.send(ctx, conn, ServerMessage{Type: msgPayload, RequestID: msg.ID, Data: payload})
		case msgPing:
			s.send(ctx, conn, ServerMessage{Type: msgPong, RequestID: msg.ID})
		default:
			s.sendError(ctx, conn, msg.ID, codeUnknownType, fmt.Sprintf("unknown message type: %s", msg.Type))
		}
	}
}

func (s *Server) handleSocketChange(ctx context.Context, conn *websocket.Conn, sess *session.Session, msg ClientMessage) {
	var ev rules.ChangeEvent
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		s.sendError(ctx, conn, msg.ID, codeInvalidBody, "invalid change event")
		return
	}
	snap, err := s.apply(sess, ev)
	if err != nil {
		s.sendSessionError(ctx, conn, msg.ID, err)
		return
	}
	s.send(ctx, conn, ServerMessage{Type: msgSnapshot, RequestID: msg.ID, Data: snap})
}

func (s *Server) send(ctx context.Context, conn *websocket.Conn, msg ServerMessage) {
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		s.logger.Debug("websocket write", zap.Error(err))
	}
}

func (s *Server) sendError(ctx context.Context, conn *websocket.Conn, requestID, code, message string) {
	s.send(ctx, conn, ServerMessage{
		Type:      msgError,
		RequestID: requestID,
		Data:      ErrorData{Code: code, Message: message},
	})
}

func (s *Server) sendSessionError(ctx context.Context, conn *websocket.Conn, requestID string, err error) {
	_, code := classify(err)
	s.sendError(ctx, conn, requestID, code, err.Error())
}
