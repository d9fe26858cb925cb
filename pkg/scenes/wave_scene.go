package scenes

import (
	"image/color"
	"log"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	cues "github.com/decker502/horde/internal/audio"
	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/game"
	"github.com/decker502/horde/pkg/modules"
	"github.com/decker502/horde/pkg/types"
	"github.com/decker502/horde/pkg/utils"
)

// 画面布局
const (
	ScreenWidth  = 1120
	ScreenHeight = 600

	ArenaWidth  = config.ArenaWidth
	ArenaHeight = config.ArenaHeight

	hudX          = ArenaWidth + 16
	hudLineHeight = 16
	progressBarW  = 280
	progressBarH  = 10
)

var (
	backgroundColor = color.RGBA{R: 24, G: 26, B: 32, A: 255}
	arenaColor      = color.RGBA{R: 32, G: 44, B: 36, A: 255}
	borderColor     = color.RGBA{R: 90, G: 110, B: 96, A: 255}
	spawnPointColor = color.RGBA{R: 240, G: 200, B: 80, A: 255}
	hudTextColor    = color.RGBA{R: 220, G: 220, B: 220, A: 255}
	errorTextColor  = color.RGBA{R: 240, G: 110, B: 100, A: 255}
	healthBackColor = color.RGBA{R: 60, G: 20, B: 20, A: 255}
	healthFillColor = color.RGBA{R: 90, G: 220, B: 90, A: 255}
)

// maxActivePlayers 同时保留的提示音播放器数量
const maxActivePlayers = 8

// WaveScene 桌面版波次操作场景
//
// 左侧绘制出生点和存活敌人，右侧是状态面板和事件日志。
// 按键由 WaveControlModule 统一处理，场景额外处理 r（从磁盘重新加载配置）。
type WaveScene struct {
	module       *modules.WaveControlModule
	settings     *game.SettingsManager
	sceneManager *SceneManager
	wavesPath    string

	audioContext *audio.Context
	players      []*audio.Player
	cueCache     map[cues.Cue][]byte
	cueVolume    float64

	face      text.Face
	runes     []rune
	lastError string
}

// NewWaveScene 创建波次操作场景
//
// 参数：
//   - run: 已加载的波次配置
//   - settings: 操作偏好
//   - sceneManager: 场景管理器（用于重新加载配置）
//   - audioContext: ebiten 音频上下文，为 nil 时不播放提示音
//   - wavesPath: 当前波次配置的来源（空表示内置配置）
func NewWaveScene(run *config.RunConfig, settings *game.SettingsManager, sceneManager *SceneManager, audioContext *audio.Context, wavesPath string) *WaveScene {
	s := &WaveScene{
		module:       modules.NewWaveControlModule(run, settings, time.Now().UnixNano()),
		settings:     settings,
		sceneManager: sceneManager,
		wavesPath:    wavesPath,
		audioContext: audioContext,
		cueCache:     make(map[cues.Cue][]byte),
		face:         text.NewGoXFace(basicfont.Face7x13),
	}
	s.module.SetCueHandler(s.playCue)
	settings.SetLastWavesPath(wavesPath)
	return s
}

// Module 返回场景使用的操作模块
func (s *WaveScene) Module() *modules.WaveControlModule {
	return s.module
}

// Update 处理输入并推进调度
func (s *WaveScene) Update(deltaTime float64) {
	s.runes = ebiten.AppendInputChars(s.runes[:0])
	for _, r := range s.runes {
		if r == 'r' || r == 'R' {
			s.reload()
			return
		}
		s.module.HandleKey(r)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		s.module.StopAll()
	}

	s.module.Update(deltaTime)
	s.prunePlayers()
}

// reload 从磁盘重新加载配置并切换到新场景
func (s *WaveScene) reload() {
	s.module.StopAll()
	if err := s.sceneManager.LoadRun(s.wavesPath); err != nil {
		s.lastError = err.Error()
		return
	}
	s.lastError = ""
}

// SaveOnExit 实现 Saveable
func (s *WaveScene) SaveOnExit() bool {
	if err := s.settings.Save(); err != nil {
		log.Printf("[WaveScene] Warning: failed to save settings on exit: %v", err)
		return false
	}
	return true
}

// Draw 绘制场景
func (s *WaveScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	s.drawArena(screen)
	s.drawHUD(screen)
}

func (s *WaveScene) drawArena(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, ArenaWidth, ArenaHeight, arenaColor, false)
	vector.StrokeRect(screen, 1, 1, ArenaWidth-2, ArenaHeight-2, 2, borderColor, false)

	for _, p := range s.module.SpawnPoints() {
		vector.StrokeCircle(screen, float32(p.X), float32(p.Y), 14, 2, spawnPointColor, true)
		s.drawText(screen, p.Name, p.X-float64(len(p.Name))*3.5, p.Y+18, spawnPointColor)
	}

	for _, e := range s.module.EnemyViews() {
		r := EnemyRadius(e.Kind)
		// 同一出生点的敌人按存活时间向外错开，避免完全重叠
		x, y := spreadFromSpawn(e.X, e.Y, e.Age, int(e.ID))
		vector.DrawFilledCircle(screen, float32(x), float32(y), r, EnemyColor(e.Kind), true)

		barW := r * 2
		barX := float32(x) - r
		barY := float32(y) - r - 6
		vector.DrawFilledRect(screen, barX, barY, barW, 3, healthBackColor, false)
		vector.DrawFilledRect(screen, barX, barY, barW*float32(e.HealthFrac), 3, healthFillColor, false)
	}
}

func (s *WaveScene) drawHUD(screen *ebiten.Image) {
	status := s.module.Status()
	y := 16.0
	for _, line := range modules.HUDLines(status) {
		s.drawText(screen, line, hudX, y, hudTextColor)
		y += hudLineHeight
	}

	y += 4
	vector.StrokeRect(screen, hudX, float32(y), progressBarW, progressBarH, 1, borderColor, false)
	vector.DrawFilledRect(screen, hudX, float32(y), float32(progressBarW*status.Progress), progressBarH, healthFillColor, false)
	y += progressBarH + hudLineHeight

	for _, line := range status.Log {
		c := hudTextColor
		if strings.HasPrefix(line, "!") {
			c = errorTextColor
		}
		s.drawText(screen, line, hudX, y, c)
		y += hudLineHeight
	}

	if s.lastError != "" {
		s.drawText(screen, "reload: "+s.lastError, hudX, ScreenHeight-3*hudLineHeight, errorTextColor)
	}
	s.drawText(screen, controlsHelp, hudX, ScreenHeight-hudLineHeight*2, borderColor)
}

func (s *WaveScene) drawText(screen *ebiten.Image, str string, x, y float64, clr color.Color) {
	opts := &text.DrawOptions{}
	opts.GeoM.Translate(x, y)
	opts.ColorScale.ScaleWithColor(clr)
	opts.LineSpacing = hudLineHeight
	text.Draw(screen, str, s.face, opts)
}

// playCue 播放提示音，PCM 数据按音量缓存
func (s *WaveScene) playCue(c cues.Cue) {
	if s.audioContext == nil {
		return
	}

	volume := s.settings.GetSettings().CueVolume
	if volume != s.cueVolume {
		s.cueCache = make(map[cues.Cue][]byte)
		s.cueVolume = volume
	}

	data, ok := s.cueCache[c]
	if !ok {
		data = cues.RenderPCM(cues.NewCueStreamer(c, volume)).Bytes()
		s.cueCache[c] = data
	}

	if len(s.players) >= maxActivePlayers {
		s.players[0].Close()
		s.players = s.players[1:]
	}
	player := s.audioContext.NewPlayerFromBytes(data)
	player.Play()
	s.players = append(s.players, player)
}

// prunePlayers 关闭已播放完的播放器
func (s *WaveScene) prunePlayers() {
	active := s.players[:0]
	for _, p := range s.players {
		if p.IsPlaying() {
			active = append(active, p)
			continue
		}
		p.Close()
	}
	s.players = active
}

const controlsHelp = "s start  x stop  e end  n next  1-9 jump\nd debug  a auto  m cues  p pause  +/- speed  r reload"

// EnemyColor 按种类返回敌人颜色
func EnemyColor(kind types.KindTag) color.RGBA {
	switch kind {
	case types.KindRanged:
		return color.RGBA{R: 110, G: 160, B: 240, A: 255}
	case types.KindFast:
		return color.RGBA{R: 240, G: 220, B: 90, A: 255}
	case types.KindTank:
		return color.RGBA{R: 150, G: 150, B: 160, A: 255}
	case types.KindBoss:
		return color.RGBA{R: 220, G: 60, B: 200, A: 255}
	default:
		return color.RGBA{R: 220, G: 90, B: 70, A: 255}
	}
}

// EnemyRadius 按种类返回敌人半径
func EnemyRadius(kind types.KindTag) float32 {
	switch kind {
	case types.KindFast:
		return 6
	case types.KindTank:
		return 11
	case types.KindBoss:
		return 18
	default:
		return 8
	}
}

// 敌人离开出生点的最大距离（像素）和所需时间（秒）
const (
	maxSpread  = 120.0
	spreadTime = 4.0
)

// spreadFromSpawn 将敌人从出生点沿固定方向外移，方向由实体 ID 决定
func spreadFromSpawn(x, y, age float64, seed int) (float64, float64) {
	dist := utils.Lerp(0, maxSpread, utils.EaseOutCubic(utils.Progress(age, spreadTime)))
	dirs := [8][2]float64{{1, 0}, {0.7, 0.7}, {0, 1}, {-0.7, 0.7}, {-1, 0}, {-0.7, -0.7}, {0, -1}, {0.7, -0.7}}
	d := dirs[seed%len(dirs)]
	nx := clamp(x+d[0]*dist, 10, ArenaWidth-10)
	ny := clamp(y+d[1]*dist, 10, ArenaHeight-10)
	return nx, ny
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
