package scenes

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 根据波次配置文件路径创建场景（空路径表示内置配置）
type SceneFactory func(wavesPath string) (Scene, error)

// SceneManager 控制当前活动的场景
// 同一时刻只有一个场景的 Update 和 Draw 会被调用
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory
}

// NewSceneManager 创建场景管理器，初始没有活动场景
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo 切换到指定场景
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// LoadRun 用指定的波次配置创建新场景并切换过去
// 创建失败时保留当前场景并返回错误
func (sm *SceneManager) LoadRun(wavesPath string) error {
	log.Printf("[SceneManager] 加载波次配置: %q", wavesPath)

	if sm.sceneFactory == nil {
		return fmt.Errorf("scene factory not set")
	}

	newScene, err := sm.sceneFactory(wavesPath)
	if err != nil {
		log.Printf("[SceneManager] 错误: 无法创建场景: %v", err)
		return err
	}
	if newScene == nil {
		return fmt.Errorf("scene factory returned nil for %q", wavesPath)
	}

	sm.SwitchTo(newScene)
	log.Printf("[SceneManager] 成功切换场景")
	return nil
}

// SaveOnExit 若当前场景实现了 Saveable 则调用它
func (sm *SceneManager) SaveOnExit() bool {
	if saveable, ok := sm.currentScene.(Saveable); ok {
		return saveable.SaveOnExit()
	}
	return true
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
