package router

import (
	"io/fs"
	"strings"
)

// テンプレートファイル名
const (
	IndexTemplate    = "index.html"
	BouquetsTemplate = "bouquets.html"
	CartTemplate     = "cart.html"
)

// route はリクエスト本文に対する判定と、一致した場合の処理の組
type route struct {
	name  string
	match func(req string) bool
	serve func(req string) *Response
}

// Router はリクエストを固定のルート表で振り分ける
// 接続間で共有されるが、生成後は読み取りのみ
type Router struct {
	templates fs.FS
	static    fs.FS
	routes    []route
}

// New は新しいRouterを作成する
// templates と static はリクエストごとに読み込まれる
func New(templates, static fs.FS) *Router {
	rt := &Router{
		templates: templates,
		static:    static,
	}

	// 順序に意味がある: 先に一致したものが使われる
	rt.routes = []route{
		{"index", containsAny("GET / ", "GET /index.html"), rt.template(IndexTemplate)},
		{"bouquets", containsAny("GET /bouquets"), rt.template(BouquetsTemplate)},
		{"cart", containsAny("GET /cart"), rt.template(CartTemplate)},
		{"health", containsAny("GET /api/health"), rt.health},
		{"order", containsAny("POST /api/order"), rt.order},
		{"css", containsAny(".css"), rt.asset(fixedType(contentTypeCSS))},
		{"js", containsAny(".js"), rt.asset(fixedType(contentTypeJS))},
		{"image", containsAny(".jpg", ".png"), rt.asset(imageType)},
	}

	return rt
}

// Route はバッファに読み込んだリクエストに対するレスポンスを返す
// 判定はリクエスト行だけでなくバッファ全体への部分一致で行う
func (rt *Router) Route(raw []byte) *Response {
	req := string(raw)
	return rt.lookup(req).serve(req)
}

// Match は一致したルート名を返す
func (rt *Router) Match(raw []byte) string {
	return rt.lookup(string(raw)).name
}

func (rt *Router) lookup(req string) route {
	for _, r := range rt.routes {
		if r.match(req) {
			return r
		}
	}
	return route{name: "fallback", serve: rt.template(IndexTemplate)}
}

func (rt *Router) template(name string) func(string) *Response {
	return func(string) *Response {
		return rt.serveTemplate(name)
	}
}

func (rt *Router) asset(contentType func([]byte) string) func(string) *Response {
	return func(req string) *Response {
		return rt.serveStatic(req, contentType)
	}
}

func containsAny(substrs ...string) func(string) bool {
	return func(req string) bool {
		for _, s := range substrs {
			if strings.Contains(req, s) {
				return true
			}
		}
		return false
	}
}
