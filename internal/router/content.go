package router

import (
	"io/fs"
	"log"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	contentTypeHTML = "text/html"
	contentTypeCSS  = "text/css"
	contentTypeJS   = "application/javascript"

	// 画像の判定ができなかった場合の Content-Type
	contentTypeImage = "image/jpeg"
)

// serveTemplate はテンプレートファイルをそのまま返す
func (rt *Router) serveTemplate(name string) *Response {
	data, err := fs.ReadFile(rt.templates, name)
	if err != nil {
		log.Printf("テンプレートの読み込みに失敗: %s: %v", name, err)
		return notFound()
	}
	return fileResponse(contentTypeHTML, data)
}

// serveStatic はリクエスト行のパスに対応する静的ファイルを返す
// contentType を返す関数はファイル内容を受け取る
func (rt *Router) serveStatic(req string, contentType func([]byte) string) *Response {
	path, ok := ExtractPath(req)
	if !ok || !strings.HasPrefix(path, "/") {
		return notFound()
	}

	name := strings.TrimPrefix(path, "/")
	data, err := fs.ReadFile(rt.static, name)
	if err != nil {
		log.Printf("静的ファイルの読み込みに失敗: %s: %v", path, err)
		return notFound()
	}
	return fileResponse(contentType(data), data)
}

func fixedType(contentType string) func([]byte) string {
	return func([]byte) string { return contentType }
}

// imageType はファイル内容から画像の Content-Type を判定する
func imageType(data []byte) string {
	mtype := mimetype.Detect(data)
	if strings.HasPrefix(mtype.String(), "image/") {
		return mtype.String()
	}
	return contentTypeImage
}
