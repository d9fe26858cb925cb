// Package embedded 提供内置配置文件的统一访问接口
//
// 嵌入的文件由 data 包提供（以 data 目录为根），
// 本包提供包装函数，让其他包用 "data/..." 路径访问内置配置。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// 内置配置文件路径
const (
	EnemiesPath = "data/enemies.yaml"
	WavesPath   = "data/waves.yaml"
)

var (
	dataFS      fs.FS
	initialized bool
)

// Init 初始化数据文件系统
// data 以 data 目录为根（通常是 data.FS）
// 必须在 main() 开始时、任何配置加载之前调用
func Init(data fs.FS) {
	dataFS = data
	initialized = data != nil
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 标准化路径，检查并去掉 "data/" 前缀
func normalize(path string) (string, error) {
	// embed.FS 使用正斜杠
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")

	rel, ok := strings.CutPrefix(path, "data/")
	if !ok {
		return "", fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", path)
	}
	return rel, nil
}

// ReadFile 读取内置文件内容
// 路径必须以 "data/" 开头
func ReadFile(path string) ([]byte, error) {
	if !initialized {
		return nil, fmt.Errorf("embedded package not initialized, call Init() first")
	}
	path, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(dataFS, path)
}

// Exists 检查文件是否存在于内置文件系统中
func Exists(path string) bool {
	if !initialized {
		return false
	}
	path, err := normalize(path)
	if err != nil {
		return false
	}
	_, err = fs.Stat(dataFS, path)
	return err == nil
}

// Glob 在内置文件系统中匹配文件
func Glob(pattern string) ([]string, error) {
	if !initialized {
		return nil, fmt.Errorf("embedded package not initialized, call Init() first")
	}
	pattern, err := normalize(pattern)
	if err != nil {
		return nil, err
	}
	matches, err := fs.Glob(dataFS, pattern)
	if err != nil {
		return nil, err
	}
	for i, m := range matches {
		matches[i] = "data/" + m
	}
	return matches, nil
}
