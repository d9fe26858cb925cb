package embedded

import (
	"testing"
	"testing/fstest"
)

func resetForTest(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		dataFS = nil
		initialized = false
	})
}

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	resetForTest(t)
	initialized = false

	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}

	Init(fstest.MapFS{})
	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}
}

// TestReadFileNotInitialized 测试未初始化时调用 ReadFile
func TestReadFileNotInitialized(t *testing.T) {
	resetForTest(t)
	initialized = false

	_, err := ReadFile(WavesPath)
	if err == nil || err.Error() != "embedded package not initialized, call Init() first" {
		t.Errorf("Unexpected error: %v", err)
	}
	if Exists(WavesPath) {
		t.Error("未初始化时 Exists 应返回 false")
	}
}

func TestReadFile(t *testing.T) {
	resetForTest(t)
	Init(fstest.MapFS{
		"waves.yaml":   {Data: []byte("waves: []\n")},
		"enemies.yaml": {Data: []byte("enemies: []\n")},
	})

	data, err := ReadFile("./data/waves.yaml")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "waves: []\n" {
		t.Errorf("内容不正确: %q", data)
	}

	if _, err := ReadFile("assets/logo.png"); err == nil {
		t.Error("非 data/ 前缀应报错")
	}
	if !Exists(EnemiesPath) || Exists("data/missing.yaml") {
		t.Error("Exists 结果不正确")
	}

	matches, err := Glob("data/*.yaml")
	if err != nil || len(matches) != 2 {
		t.Fatalf("期望匹配 2 个文件, 实际 %v (%v)", matches, err)
	}
	for _, m := range matches {
		if !Exists(m) {
			t.Errorf("Glob 结果应可直接读取: %s", m)
		}
	}
}
