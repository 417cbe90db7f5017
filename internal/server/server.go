package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"flowershop/internal/config"
	"flowershop/internal/router"
)

// シャットダウン時に処理中の接続を待つ最大時間
const shutdownTimeout = 5 * time.Second

// 受け付けエラー後の待ち時間の上限
const maxAcceptDelay = time.Second

// Server はTCPの待ち受けと接続ごとの処理を管理する構造体
type Server struct {
	config *config.Config
	router *router.Router

	// 接続ごとの読み込みバッファ
	buffers sync.Pool

	// 同時接続数の上限（nil は無制限）
	slots chan struct{}

	mu       sync.Mutex
	listener net.Listener
	conns    sync.WaitGroup
}

// New は新しいServerインスタンスを作成する
// テンプレートと静的ファイルは設定されたディレクトリからリクエストごとに読み込む
func New(cfg *config.Config) *Server {
	rt := router.New(
		os.DirFS(cfg.Content.TemplatesDir),
		os.DirFS(cfg.Content.StaticDir),
	)
	return NewWithRouter(cfg, rt)
}

// NewWithRouter は指定されたRouterを使うServerを作成する
func NewWithRouter(cfg *config.Config, rt *router.Router) *Server {
	size := cfg.Server.ReadBufferSize
	s := &Server{
		config: cfg,
		router: rt,
		buffers: sync.Pool{
			New: func() any {
				buf := make([]byte, size)
				return &buf
			},
		},
	}
	if cfg.Server.MaxConnections > 0 {
		s.slots = make(chan struct{}, cfg.Server.MaxConnections)
	}
	return s
}

// Listen はソケットを作成して待ち受けを開始する
func (s *Server) Listen(ctx context.Context) error {
	lc := net.ListenConfig{Control: reuseAddr}
	ln, err := lc.Listen(ctx, "tcp", s.config.ServerAddress())
	if err != nil {
		return fmt.Errorf("ポート %d での待ち受けに失敗: %w", s.config.Server.Port, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	return nil
}

// Addr は待ち受け中のアドレスを返す
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve はリスナーが閉じられるまで接続を受け付ける
// 受け付けた接続はそれぞれ別のゴルーチンで処理し、すぐに次の接続を待つ
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return errors.New("リスナーが作成されていません")
	}

	// コンテキストのキャンセルでリスナーを閉じる
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.closeListener()
		case <-done:
		}
	}()

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}

			// 個々の受け付けエラーではループを止めない
			delay = nextAcceptDelay(delay)
			log.Printf("接続の受け付けに失敗: %v (%v 後に再開)", err, delay)
			time.Sleep(delay)
			continue
		}
		delay = 0

		if !s.acquire(ctx) {
			conn.Close()
			return nil
		}

		s.conns.Add(1)
		go s.handleConn(conn)
	}
}

// Start はサーバーを起動する
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(ctx); err != nil {
		return err
	}
	log.Printf("サーバーを起動しました: %s", s.Addr())

	serveCh := make(chan error, 1)
	go func() {
		serveCh <- s.Serve(ctx)
	}()

	if err := waitForStop(ctx, serveCh); err != nil {
		return err
	}

	// グレースフルシャットダウン
	return s.Shutdown()
}

// Shutdown はリスナーを閉じ、処理中の接続の終了を待つ
func (s *Server) Shutdown() error {
	log.Println("サーバーをシャットダウンしています...")
	s.closeListener()

	finished := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(shutdownTimeout):
		return fmt.Errorf("サーバーのシャットダウンに失敗: %v 以内に接続が終了しませんでした", shutdownTimeout)
	}

	log.Println("サーバーが正常にシャットダウンされました")
	return nil
}

func (s *Server) closeListener() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return
	}
	if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Printf("リスナーのクローズに失敗: %v", err)
	}
}

// acquire は同時接続数の枠を確保する
func (s *Server) acquire(ctx context.Context) bool {
	if s.slots == nil {
		return true
	}
	select {
	case s.slots <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Server) release() {
	if s.slots != nil {
		<-s.slots
	}
}

func nextAcceptDelay(delay time.Duration) time.Duration {
	if delay == 0 {
		return 5 * time.Millisecond
	}
	delay *= 2
	if delay > maxAcceptDelay {
		delay = maxAcceptDelay
	}
	return delay
}

// waitForStop はコンテキストのキャンセル、シグナル、サーバーのエラーのいずれかを待つ
// サーバーがエラーで終了した場合はそのエラーを返す
func waitForStop(ctx context.Context, serveCh <-chan error) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
		log.Println("コンテキストがキャンセルされました")
	case sig := <-sigCh:
		log.Printf("シグナルを受信しました: %v", sig)
	case err := <-serveCh:
		return err
	}
	return nil
}
