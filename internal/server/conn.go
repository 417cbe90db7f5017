package server

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net"
	"time"

	"github.com/google/uuid"
)

// handleConn は1回だけ読み込んだリクエストに応答して接続を閉じる
func (s *Server) handleConn(conn net.Conn) {
	defer s.conns.Done()
	defer s.release()
	defer conn.Close()

	id := uuid.NewString()

	if timeout := s.config.Server.ReadTimeout; timeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(timeout))
	}

	bufp := s.buffers.Get().(*[]byte)
	defer s.buffers.Put(bufp)
	buf := *bufp

	// 残りのデータは読まない
	n, err := conn.Read(buf)
	if n == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			log.Printf("[%s] リクエストの読み込みに失敗: %s: %v", id, conn.RemoteAddr(), err)
		}
		return
	}

	resp := s.router.Route(buf[:n])

	if timeout := s.config.Server.WriteTimeout; timeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(timeout))
	}
	if _, err := resp.WriteTo(conn); err != nil {
		log.Printf("[%s] レスポンスの書き込みに失敗: %s: %v", id, conn.RemoteAddr(), err)
		return
	}

	log.Printf("[%s] %s %q %d", id, conn.RemoteAddr(), requestLine(buf[:n]), resp.StatusCode)
}

// requestLine はログ用にリクエストの1行目を返す
func requestLine(raw []byte) []byte {
	if i := bytes.IndexAny(raw, "\r\n"); i >= 0 {
		return raw[:i]
	}
	return raw
}
