package scenes

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// MockScene is a mock implementation of the Scene interface for testing.
type MockScene struct {
	updateCalled bool
	drawCalled   bool
	deltaTime    float64
	saved        bool
}

func (m *MockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

func (m *MockScene) Draw(screen *ebiten.Image) {
	m.drawCalled = true
}

func (m *MockScene) SaveOnExit() bool {
	m.saved = true
	return true
}

// plainScene 不实现 Saveable
type plainScene struct{}

func (plainScene) Update(float64)      {}
func (plainScene) Draw(*ebiten.Image) {}

func TestNewSceneManager(t *testing.T) {
	sm := NewSceneManager()
	if sm == nil {
		t.Fatal("NewSceneManager() returned nil")
	}
	if sm.GetCurrentScene() != nil {
		t.Error("Expected currentScene to be nil initially")
	}
}

func TestSceneManagerUpdateAndDraw(t *testing.T) {
	sm := NewSceneManager()
	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)

	deltaTime := 0.016 // ~60 FPS
	sm.Update(deltaTime)
	sm.Draw(nil)

	if !mockScene.updateCalled || !mockScene.drawCalled {
		t.Error("Scene's Update/Draw was not called")
	}
	if mockScene.deltaTime != deltaTime {
		t.Errorf("Expected deltaTime %.3f, got %.3f", deltaTime, mockScene.deltaTime)
	}
}

func TestSceneManagerNoScene(t *testing.T) {
	sm := NewSceneManager()
	// 没有活动场景时不应 panic
	sm.Update(0.016)
	sm.Draw(nil)
	if !sm.SaveOnExit() {
		t.Error("没有场景时 SaveOnExit 应返回 true")
	}
}

func TestSceneManagerLoadRun(t *testing.T) {
	sm := NewSceneManager()

	if err := sm.LoadRun(""); err == nil {
		t.Error("未设置工厂时应返回错误")
	}

	var requested []string
	created := &MockScene{}
	sm.SetSceneFactory(func(wavesPath string) (Scene, error) {
		requested = append(requested, wavesPath)
		if wavesPath == "broken.yaml" {
			return nil, errors.New("parse failed")
		}
		return created, nil
	})

	if err := sm.LoadRun("waves.yaml"); err != nil {
		t.Fatalf("LoadRun failed: %v", err)
	}
	if sm.GetCurrentScene() != created {
		t.Error("LoadRun 应切换到新场景")
	}

	// 失败时保留当前场景
	sm.SwitchTo(plainScene{})
	if err := sm.LoadRun("broken.yaml"); err == nil {
		t.Error("工厂失败时应返回错误")
	}
	if _, ok := sm.GetCurrentScene().(plainScene); !ok {
		t.Error("工厂失败时不应切换场景")
	}

	if len(requested) != 2 || requested[0] != "waves.yaml" {
		t.Errorf("工厂调用参数不正确: %v", requested)
	}
}

func TestSceneManagerSaveOnExit(t *testing.T) {
	sm := NewSceneManager()
	scene := &MockScene{}
	sm.SwitchTo(scene)

	if !sm.SaveOnExit() || !scene.saved {
		t.Error("Saveable 场景应被保存")
	}

	sm.SwitchTo(plainScene{})
	if !sm.SaveOnExit() {
		t.Error("非 Saveable 场景应直接返回 true")
	}
}
