package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// 时间倍率范围
const (
	MinTimeScale = 0.25
	MaxTimeScale = 4.0
)

// OperatorSettings 操作界面的偏好设置
// 注意：只保存操作偏好，不保存任何波次进度
type OperatorSettings struct {
	// 调试
	Debug bool `yaml:"debug"` // 调度器详细日志

	// 运行
	TimeScale float64 `yaml:"timeScale"` // 传给 Update 的时间倍率
	AutoFire  bool    `yaml:"autoFire"`  // 自动攻击最早生成的敌人

	// 音频提示
	CuesEnabled bool    `yaml:"cuesEnabled"` // 波次切换/结束时播放提示音
	CueVolume   float64 `yaml:"cueVolume"`   // 提示音音量 0.0 ~ 1.0

	// LastWavesPath 最近一次使用的波次配置文件（空表示内置配置）
	LastWavesPath string `yaml:"lastWavesPath"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() *OperatorSettings {
	return &OperatorSettings{
		Debug:       false,
		TimeScale:   1.0,
		AutoFire:    true,
		CuesEnabled: true,
		CueVolume:   0.6,
	}
}

// SettingsManager 设置管理器
// 负责设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager    // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *OperatorSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "operator"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm
}

// OpenSettingsManager 打开应用的 gdata 存储并创建设置管理器
// 存储不可用时降级为仅内存设置
func OpenSettingsManager(appName string) *SettingsManager {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[SettingsManager] Warning: gdata unavailable: %v (settings will not persist)", err)
		manager = nil
	}
	return NewSettingsManager(manager)
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 未出现的字段保留默认值
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.TimeScale = clampTimeScale(loaded.TimeScale)
	loaded.CueVolume = clampVolume(loaded.CueVolume)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// Persistent 设置是否能够持久化
func (sm *SettingsManager) Persistent() bool {
	return sm.gdataManager != nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *OperatorSettings {
	return sm.settings
}

// SetDebug 设置调试日志开关
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetDebug(enabled bool) {
	sm.settings.Debug = enabled
}

// SetTimeScale 设置时间倍率，限制在 [MinTimeScale, MaxTimeScale]
func (sm *SettingsManager) SetTimeScale(scale float64) {
	sm.settings.TimeScale = clampTimeScale(scale)
}

// SetAutoFire 设置自动攻击开关
func (sm *SettingsManager) SetAutoFire(enabled bool) {
	sm.settings.AutoFire = enabled
}

// SetCuesEnabled 设置提示音开关
func (sm *SettingsManager) SetCuesEnabled(enabled bool) {
	sm.settings.CuesEnabled = enabled
}

// SetCueVolume 设置提示音音量
//
// 音量值会被限制在 0.0 ~ 1.0 范围内
func (sm *SettingsManager) SetCueVolume(volume float64) {
	sm.settings.CueVolume = clampVolume(volume)
}

// SetLastWavesPath 记录最近使用的波次配置文件
func (sm *SettingsManager) SetLastWavesPath(path string) {
	sm.settings.LastWavesPath = path
}

// clampVolume 将音量值限制在 0.0 ~ 1.0 范围内
func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}

func clampTimeScale(scale float64) float64 {
	if scale < MinTimeScale {
		return MinTimeScale
	}
	if scale > MaxTimeScale {
		return MaxTimeScale
	}
	return scale
}
