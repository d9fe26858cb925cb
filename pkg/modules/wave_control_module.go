package modules

import (
	"fmt"
	"log"

	"github.com/decker502/horde/internal/audio"
	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/decker502/horde/pkg/event"
	"github.com/decker502/horde/pkg/game"
	"github.com/decker502/horde/pkg/systems"
	"github.com/decker502/horde/pkg/types"
)

// 自动攻击参数
const (
	AutoFireDamage   = 40
	AutoFireCooldown = 0.35
)

// MaxLogLines 事件日志保留的行数
const MaxLogLines = 8

// WaveStatus 供界面显示的运行状态
type WaveStatus struct {
	RunID      string
	Phase      types.GamePhase
	WaveNumber int // 1-based，未开始时为 0
	TotalWaves int
	WaveName   string
	BossWave   bool
	Remaining  int
	Live       int
	Progress   float64 // (index+1)/total
	Score      int
	Defeated   int

	Debug     bool
	AutoFire  bool
	Paused    bool
	Cues      bool
	TimeScale float64

	Log []string
}

// EnemyView 供界面绘制的敌人信息
type EnemyView struct {
	ID         ecs.EntityID
	Name       string
	Kind       types.KindTag
	X, Y       float64
	HealthFrac float64
	Age        float64
}

// WaveControlModule 波次操作模块
//
// 职责：
//   - 组装调度器、敌人子系统、出生点选择器和自动炮台
//   - 提供开始/停止/结束本波/下一波/跳转/调试等操作
//   - 汇总显示用的状态和事件日志
//   - 将调度器事件转换为提示音
//
// 桌面版（WaveScene）和终端版（waveconsole）共用本模块，各自只负责输入和绘制。
type WaveControlModule struct {
	entityManager *ecs.EntityManager
	scheduler     *systems.WaveScheduler
	enemies       *systems.EnemySystem
	turret        *systems.AutoTurret
	run           *config.RunConfig
	settings      *game.SettingsManager

	log    []string
	onCue  func(audio.Cue)
	paused bool
}

// NewWaveControlModule 创建波次操作模块
//
// 参数：
//   - run: 已加载的波次配置
//   - settings: 操作偏好（可为 nil，使用默认设置且不持久化）
//   - seed: 出生点随机种子
func NewWaveControlModule(run *config.RunConfig, settings *game.SettingsManager, seed int64) *WaveControlModule {
	if settings == nil {
		settings = game.NewSettingsManager(nil)
	}

	em := ecs.NewEntityManager()
	enemies := systems.NewEnemySystem(em, 0)
	locations := systems.NewRandomLocationProvider(run.SpawnPoints, seed)
	scheduler := systems.NewWaveScheduler(run.Waves, enemies, locations)
	enemies.SetDefeatHandler(scheduler.NotifyEnemyDefeated)

	m := &WaveControlModule{
		entityManager: em,
		scheduler:     scheduler,
		enemies:       enemies,
		turret:        systems.NewAutoTurret(enemies, enemies.Alive, AutoFireDamage, AutoFireCooldown),
		run:           run,
		settings:      settings,
		log:           make([]string, 0, MaxLogLines),
	}

	prefs := settings.GetSettings()
	scheduler.SetDebug(run.Debug || prefs.Debug)
	m.turret.SetEnabled(prefs.AutoFire)
	scheduler.SubscribeAll(event.ListenerFunc(m.onEvent))

	return m
}

// SetCueHandler 设置提示音回调
func (m *WaveControlModule) SetCueHandler(fn func(audio.Cue)) {
	m.onCue = fn
}

// Scheduler 返回调度器
func (m *WaveControlModule) Scheduler() *systems.WaveScheduler {
	return m.scheduler
}

// Enemies 返回敌人子系统
func (m *WaveControlModule) Enemies() *systems.EnemySystem {
	return m.enemies
}

// Update 推进 deltaTime 秒（按时间倍率缩放）
func (m *WaveControlModule) Update(deltaTime float64) {
	if m.paused {
		// 暂停期间仍处理击败通知
		m.scheduler.Update(0)
		return
	}

	dt := deltaTime * m.settings.GetSettings().TimeScale
	m.turret.Update(dt)
	m.enemies.Update(dt)
	m.scheduler.Update(dt)
}

// Start 开始新的一局
func (m *WaveControlModule) Start() error {
	m.enemies.ResetScore()
	return m.scheduler.Start()
}

// StopAll 停止一切
func (m *WaveControlModule) StopAll() {
	m.scheduler.StopAll()
}

// EndWave 立即结束当前波次
func (m *WaveControlModule) EndWave() {
	m.scheduler.EndCurrentWave()
}

// NextWave 立即进入下一波
func (m *WaveControlModule) NextWave() {
	m.scheduler.AdvanceToNextWave()
}

// JumpTo 跳转到指定波次（0-based）
func (m *WaveControlModule) JumpTo(index int) error {
	if err := m.scheduler.JumpToWave(index); err != nil {
		m.appendLog(fmt.Sprintf("! %v", err))
		return err
	}
	return nil
}

// ToggleDebug 切换调试日志
func (m *WaveControlModule) ToggleDebug() {
	debug := !m.settings.GetSettings().Debug
	m.settings.SetDebug(debug)
	m.scheduler.SetDebug(debug || m.run.Debug)
	m.saveSettings()
}

// ToggleAutoFire 切换自动攻击
func (m *WaveControlModule) ToggleAutoFire() {
	enabled := !m.settings.GetSettings().AutoFire
	m.settings.SetAutoFire(enabled)
	m.turret.SetEnabled(enabled)
	m.saveSettings()
}

// ToggleCues 切换提示音
func (m *WaveControlModule) ToggleCues() {
	m.settings.SetCuesEnabled(!m.settings.GetSettings().CuesEnabled)
	m.saveSettings()
}

// TogglePause 切换暂停
func (m *WaveControlModule) TogglePause() {
	m.paused = !m.paused
}

// ScaleTime 调整时间倍率（乘以 factor）
func (m *WaveControlModule) ScaleTime(factor float64) {
	m.settings.SetTimeScale(m.settings.GetSettings().TimeScale * factor)
	m.saveSettings()
}

// HandleKey 处理操作按键，返回是否识别了该按键
//
// 按键：
//   - s 开始  x 停止  e 结束本波  n 下一波  1-9 跳转
//   - d 调试日志  a 自动攻击  m 提示音  p 暂停  +/- 时间倍率
func (m *WaveControlModule) HandleKey(r rune) bool {
	switch {
	case r == 's' || r == 'S':
		if err := m.Start(); err != nil {
			m.appendLog(fmt.Sprintf("! %v", err))
		}
	case r == 'x' || r == 'X':
		m.StopAll()
	case r == 'e' || r == 'E':
		m.EndWave()
	case r == 'n' || r == 'N':
		m.NextWave()
	case r >= '1' && r <= '9':
		m.JumpTo(int(r - '1'))
	case r == 'd' || r == 'D':
		m.ToggleDebug()
	case r == 'a' || r == 'A':
		m.ToggleAutoFire()
	case r == 'm' || r == 'M':
		m.ToggleCues()
	case r == 'p' || r == 'P':
		m.TogglePause()
	case r == '+' || r == '=':
		m.ScaleTime(2)
	case r == '-' || r == '_':
		m.ScaleTime(0.5)
	default:
		return false
	}
	return true
}

// Status 返回显示用的状态
func (m *WaveControlModule) Status() WaveStatus {
	prefs := m.settings.GetSettings()
	state := m.scheduler.Snapshot()

	status := WaveStatus{
		RunID:      m.scheduler.RunID(),
		Phase:      state.Phase,
		TotalWaves: m.scheduler.TotalWaves(),
		Remaining:  state.RemainingEnemyCount,
		Live:       m.scheduler.LiveCount(),
		Score:      m.enemies.Score(),
		Defeated:   m.enemies.Defeated(),
		Debug:      prefs.Debug,
		AutoFire:   prefs.AutoFire,
		Paused:     m.paused,
		Cues:       prefs.CuesEnabled,
		TimeScale:  prefs.TimeScale,
		Log:        append([]string(nil), m.log...),
	}

	if m.scheduler.RunID() != "" && status.TotalWaves > 0 {
		status.WaveNumber = state.CurrentWaveIndex + 1
		status.Progress = float64(status.WaveNumber) / float64(status.TotalWaves)
		if wave := m.scheduler.CurrentWave(); wave != nil {
			status.WaveName = wave.Name
			status.BossWave = wave.IsBossWave
		}
	}

	return status
}

// EnemyViews 返回存活敌人的绘制信息（按创建顺序）
func (m *WaveControlModule) EnemyViews() []EnemyView {
	ids := m.enemies.Alive()
	views := make([]EnemyView, 0, len(ids))
	for _, id := range ids {
		enemy, ok := ecs.GetComponent[*components.EnemyComponent](m.entityManager, id)
		if !ok || enemy.Profile == nil {
			continue
		}
		view := EnemyView{
			ID:   id,
			Name: enemy.Profile.Name,
			Kind: enemy.Profile.Kind,
			Age:  enemy.Age,
		}
		if pos, ok := ecs.GetComponent[*components.PositionComponent](m.entityManager, id); ok {
			view.X, view.Y = pos.X, pos.Y
		}
		if health, ok := ecs.GetComponent[*components.HealthComponent](m.entityManager, id); ok && health.MaxHealth > 0 {
			view.HealthFrac = float64(health.CurrentHealth) / float64(health.MaxHealth)
		}
		views = append(views, view)
	}
	return views
}

// SpawnPoints 返回出生点
func (m *WaveControlModule) SpawnPoints() []config.SpawnPoint {
	return m.run.SpawnPoints
}

func (m *WaveControlModule) onEvent(e event.Event) {
	if line, ok := FormatEvent(e); ok {
		m.appendLog(line)
	}
	if m.onCue != nil && m.settings.GetSettings().CuesEnabled {
		if cue, ok := audio.CueForEvent(e); ok {
			m.onCue(cue)
		}
	}
}

func (m *WaveControlModule) appendLog(line string) {
	if len(m.log) >= MaxLogLines {
		m.log = append(m.log[:0], m.log[1:]...)
	}
	m.log = append(m.log, line)
}

func (m *WaveControlModule) saveSettings() {
	if err := m.settings.Save(); err != nil {
		log.Printf("[WaveControlModule] Warning: %v", err)
	}
}

// FormatEvent 将事件格式化为一行日志
// 剩余数量变化和敌人生成过于频繁，不写入日志
func FormatEvent(e event.Event) (string, bool) {
	switch data := e.Data.(type) {
	case event.WaveChanged:
		return fmt.Sprintf("wave %d/%d", data.Current, data.Total), true
	case event.PhaseChanged:
		return fmt.Sprintf("phase %s", data.Phase), true
	case event.WaveTriggered:
		return fmt.Sprintf("wave %d event triggered", data.WaveIndex+1), true
	case event.Finished:
		return fmt.Sprintf("run finished (%d waves)", data.TotalWaves), true
	case event.Failure:
		return fmt.Sprintf("! %v", data.Err), true
	}
	return "", false
}
