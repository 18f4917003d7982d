// Package handler 按业务划分子包的 HTTP 处理器：report、revenue、dashboard、analytics、admin。
//
// 保留该文件是为了 `swag init --dir ./internal/handler` 能把本目录识别为 Go 包。
package handler
