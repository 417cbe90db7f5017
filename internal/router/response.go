package router

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// Header はレスポンスヘッダーの1行
type Header struct {
	Name  string
	Value string
}

// Response は1回の接続で返すHTTPレスポンス
// ヘッダーは追加した順に書き出される
type Response struct {
	StatusCode int
	Headers    []Header
	Body       []byte
}

// Get は指定された名前のヘッダー値を返す
func (r *Response) Get(name string) string {
	for _, h := range r.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}

// WriteTo はステータス行、ヘッダー、ボディを1回の書き込みで送る
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "HTTP/1.1 %d %s\r\n", r.StatusCode, http.StatusText(r.StatusCode))
	for _, h := range r.Headers {
		fmt.Fprintf(&buf, "%s: %s\r\n", h.Name, h.Value)
	}
	buf.WriteString("\r\n")
	buf.Write(r.Body)

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// fileResponse はファイル内容を Content-Length 付きで返す
func fileResponse(contentType string, body []byte) *Response {
	return &Response{
		StatusCode: http.StatusOK,
		Headers: []Header{
			{"Content-Type", contentType},
			{"Content-Length", strconv.Itoa(len(body))},
		},
		Body: body,
	}
}

// jsonResponse は固定のJSONを返す
// Content-Length は付けず、接続のクローズでボディの終端を示す
func jsonResponse(body []byte) *Response {
	return &Response{
		StatusCode: http.StatusOK,
		Headers: []Header{
			{"Content-Type", "application/json"},
			{"Access-Control-Allow-Origin", "*"},
		},
		Body: body,
	}
}

// notFound はファイルが見つからない場合のレスポンス
func notFound() *Response {
	return &Response{
		StatusCode: http.StatusNotFound,
		Headers: []Header{
			{"Content-Type", "text/plain"},
		},
		Body: []byte("File not found"),
	}
}
