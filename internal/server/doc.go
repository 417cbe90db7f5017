// Package server は、TCP接続の受け付けとリクエストの処理を管理します。
//
// このパッケージは、ソケットの待ち受け、接続ごとのゴルーチン起動、
// 固定長バッファへのリクエスト読み込み、レスポンスの書き込みを担当します。
//
// 責務:
//   - TCPソケットの待ち受けと接続の受け付け
//   - 接続ごとのリクエスト読み込みとレスポンス送信
//   - 同じルート表をGin経由で配信するアダプター
//   - グレースフルシャットダウン
//
// 仕様:
//   - リクエストは1回だけ読み込む（大きなリクエストの残りは読まない）
//   - レスポンス送信後は必ず接続を閉じる（keep-aliveなし）
//   - 受け付けエラーはログに出して次の接続を待つ
//   - 接続間で共有する可変状態はない
package server
