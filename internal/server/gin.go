package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"os"

	"flowershop/internal/config"
	"flowershop/internal/router"

	"github.com/gin-gonic/gin"
)

// GinServer は同じルート表をGin経由で配信するサーバー
// HTTPの解析はnet/httpに任せ、振り分けはRouterと同じ結果になる
type GinServer struct {
	config     *config.Config
	router     *router.Router
	engine     *gin.Engine
	httpServer *http.Server
}

// NewGin は新しいGinServerインスタンスを作成する
func NewGin(cfg *config.Config) *GinServer {
	rt := router.New(
		os.DirFS(cfg.Content.TemplatesDir),
		os.DirFS(cfg.Content.StaticDir),
	)
	return NewGinWithRouter(cfg, rt)
}

// NewGinWithRouter は指定されたRouterを使うGinServerを作成する
func NewGinWithRouter(cfg *config.Config, rt *router.Router) *GinServer {
	engine := gin.New()
	engine.Use(gin.LoggerWithWriter(os.Stderr), gin.Recovery())

	s := &GinServer{
		config: cfg,
		router: rt,
		engine: engine,
	}

	// ルートは部分一致で決まるため、全てのリクエストをRouterに渡す
	engine.NoRoute(s.handle)

	s.httpServer = &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	// 1リクエストごとに接続を閉じる
	s.httpServer.SetKeepAlivesEnabled(false)

	return s
}

// Handler はGinのエンジンを返す
func (s *GinServer) Handler() http.Handler {
	return s.engine
}

// handle はリクエストをワイヤー形式に戻してRouterで振り分ける
func (s *GinServer) handle(c *gin.Context) {
	raw, err := httputil.DumpRequest(c.Request, false)
	if err != nil {
		c.String(http.StatusBadRequest, "Bad request")
		return
	}
	if size := s.config.Server.ReadBufferSize; len(raw) > size {
		raw = raw[:size]
	}

	resp := s.router.Route(raw)
	for _, h := range resp.Headers {
		if h.Name == "Content-Type" {
			continue
		}
		c.Header(h.Name, h.Value)
	}
	c.Data(resp.StatusCode, resp.Get("Content-Type"), resp.Body)
}

// Start はサーバーを起動する
func (s *GinServer) Start(ctx context.Context) error {
	serveCh := make(chan error, 1)

	go func() {
		log.Printf("HTTPサーバーを起動しています: %s", s.config.ServerAddress())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveCh <- fmt.Errorf("サーバーの起動に失敗: %w", err)
		}
	}()

	if err := waitForStop(ctx, serveCh); err != nil {
		return err
	}

	return s.Shutdown()
}

// Shutdown はサーバーをグレースフルにシャットダウンする
func (s *GinServer) Shutdown() error {
	log.Println("サーバーをシャットダウンしています...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
	}

	log.Println("サーバーが正常にシャットダウンされました")
	return nil
}
