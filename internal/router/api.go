package router

import (
	"github.com/goccy/go-json"
)

// ServiceName はヘルスチェックで返すサービス名
const ServiceName = "flower-shop"

// HealthResponse は GET /api/health のボディ
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// OrderResponse は POST /api/order のボディ
// 注文内容は読まずに常に受け付ける
type OrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

var (
	healthBody = mustMarshal(HealthResponse{Status: "ok", Service: ServiceName})
	orderBody  = mustMarshal(OrderResponse{Success: true, Message: "order accepted"})
)

func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

func (rt *Router) health(string) *Response {
	return jsonResponse(healthBody)
}

func (rt *Router) order(string) *Response {
	return jsonResponse(orderBody)
}
