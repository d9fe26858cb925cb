// Package data 内置的敌人目录和波次配置
//
// 桌面版和命令行工具通过 embedded.Init(data.FS) 使用这些文件，
// 未指定配置文件时作为默认配置。
package data

import "embed"

// FS 以 data 目录为根的内置配置文件
//
//go:embed enemies.yaml waves.yaml
var FS embed.FS
