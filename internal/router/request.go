package router

import "strings"

const (
	pathStart = "GET "
	pathEnd   = " HTTP/"
)

// ExtractPath はリクエスト行から "GET " と " HTTP/" の間のパスを取り出す
// メソッドがGETでない場合やバージョン部分が無い場合は false を返す
func ExtractPath(req string) (string, bool) {
	start := strings.Index(req, pathStart)
	if start < 0 {
		return "", false
	}
	start += len(pathStart)

	end := strings.Index(req, pathEnd)
	if end < start {
		return "", false
	}
	return req[start:end], true
}
