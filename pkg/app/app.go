// Package app 提供桌面版波次操作台的应用包装器
//
// 该包把初始化逻辑从 main 包提取出来：加载配置、创建场景管理器和音频上下文。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	cues "github.com/decker502/horde/internal/audio"
	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/embedded"
	"github.com/decker502/horde/pkg/game"
	"github.com/decker502/horde/pkg/scenes"
)

// AppName gdata 存储使用的应用名
const AppName = "horde"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// EnemiesPath 敌人目录文件，为空使用内置配置
	EnemiesPath string
	// WavesPath 波次配置文件，为空使用内置配置
	WavesPath string
	// Debug 强制开启调度器详细日志
	Debug bool
}

// App 实现 ebiten.Game 接口
type App struct {
	sceneManager             *scenes.SceneManager
	settings                 *game.SettingsManager
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化内置配置。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	settings := game.OpenSettingsManager(AppName)
	if cfg.Debug {
		settings.SetDebug(true)
	}

	// 初始化音频上下文（提示音与 beep 渲染使用相同采样率）
	audioContext := audio.NewContext(int(cues.SampleRate))

	sceneManager := scenes.NewSceneManager()
	sceneManager.SetSceneFactory(func(wavesPath string) (scenes.Scene, error) {
		_, run, err := config.LoadRunFiles(cfg.EnemiesPath, wavesPath, embedded.ReadFile, embedded.EnemiesPath, embedded.WavesPath)
		if err != nil {
			return nil, err
		}
		return scenes.NewWaveScene(run, settings, sceneManager, audioContext, wavesPath), nil
	})

	if err := sceneManager.LoadRun(cfg.WavesPath); err != nil {
		return nil, fmt.Errorf("波次配置加载失败: %w", err)
	}

	ebiten.SetWindowClosingHandled(true)

	return &App{
		sceneManager: sceneManager,
		settings:     settings,
		verbose:      cfg.Verbose,
	}, nil
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		a.sceneManager.SaveOnExit()
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(scenes.ScreenWidth, scenes.ScreenHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return scenes.ScreenWidth, scenes.ScreenHeight
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *scenes.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
