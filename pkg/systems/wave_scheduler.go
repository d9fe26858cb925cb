package systems

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/decker502/horde/pkg/event"
	"github.com/decker502/horde/pkg/types"
)

// schedulerStage 调度器内部的等待点
// 对外只暴露 GamePhase，stage 额外区分了同一阶段下的不同等待条件
type schedulerStage int

const (
	stageIdle           schedulerStage = iota // 未运行（Preparing）
	stageSpawning                             // 正在执行分组
	stageAwaitingClear                        // 等待剩余敌人归零
	stageTransitionDelay                      // 波次完成后的 preWaveDelay
	stageManualAdvance                        // 等待 AdvanceToNextWave
	stageHeld                                 // EndCurrentWave 之后，等待显式推进
	stageFinished                             // 全部波次结束
)

// RunState 一局的运行状态快照
type RunState struct {
	CurrentWaveIndex    int
	Phase               types.GamePhase
	RemainingEnemyCount int
	WaveInProgress      bool
	SpawnPhaseActive    bool
}

// WaveScheduler 波次调度器
//
// 职责：
//   - 按顺序执行每个波次的分组出怪
//   - 跟踪存活敌人，判定波次清空
//   - 根据完成策略推进到下一波或结束
//   - 派发阶段、波次、剩余数量等事件
//
// 所有等待都是状态机中的计时或条件阶段，由宿主每帧调用 Update 推进，不会阻塞。
// 除 NotifyEnemyDefeated 外，所有方法都必须在宿主的控制循环中调用。
type WaveScheduler struct {
	waves      []config.WaveProfile
	spawner    EntitySpawner
	locations  LocationProvider
	dispatcher *event.Dispatcher
	registry   *LiveEnemyRegistry

	state RunState
	stage schedulerStage
	runID string

	// waveCtx 覆盖一次波次处理，spawnCtx 是其中生成阶段的子上下文
	waveCtx     context.Context
	waveCancel  context.CancelFunc
	spawnCtx    context.Context
	spawnCancel context.CancelFunc

	executor       *SpawnPatternExecutor
	groupIndex     int
	delayRemaining float64
	paused         bool

	// generation 每次 cancelWave 递增；控制方法据此判断监听器是否在派发期间接管了调度
	generation uint64

	// 跨 goroutine 的击败通知，在下一次 Update 开始时统一处理
	inboxMu sync.Mutex
	inbox   []ecs.EntityID

	// verbose 是否输出详细日志
	verbose bool
}

// NewWaveScheduler 创建波次调度器
//
// 参数：
//   - waves: 有序的波次列表（调度器持有期间视为只读）
//   - spawner: 敌人生成器（允许为 nil，此时每次生成都会报告 ErrNoSpawner）
//   - locations: 出生点选择器（允许为 nil，此时每次生成都会报告 ErrNoSpawnLocations）
//
// 返回：
//   - *WaveScheduler: 处于 Preparing 阶段的调度器
func NewWaveScheduler(waves []config.WaveProfile, spawner EntitySpawner, locations LocationProvider) *WaveScheduler {
	return &WaveScheduler{
		waves:      waves,
		spawner:    spawner,
		locations:  locations,
		dispatcher: event.NewDispatcher(),
		registry:   NewLiveEnemyRegistry(),
		state: RunState{
			Phase: types.PhasePreparing,
		},
		stage: stageIdle,
	}
}

// SetDebug 开启/关闭详细日志（不影响调度逻辑）
func (s *WaveScheduler) SetDebug(debug bool) {
	s.verbose = debug
}

// Subscribe 订阅指定类型的事件
func (s *WaveScheduler) Subscribe(eventType event.EventType, listener event.Listener) event.Subscription {
	return s.dispatcher.Subscribe(eventType, listener)
}

// SubscribeFunc 以函数订阅指定类型的事件
func (s *WaveScheduler) SubscribeFunc(eventType event.EventType, fn func(e event.Event)) event.Subscription {
	return s.dispatcher.SubscribeFunc(eventType, fn)
}

// SubscribeAll 订阅全部事件
func (s *WaveScheduler) SubscribeAll(listener event.Listener) event.Subscription {
	return s.dispatcher.SubscribeAll(listener)
}

// Unsubscribe 取消订阅
func (s *WaveScheduler) Unsubscribe(id event.Subscription) bool {
	return s.dispatcher.Unsubscribe(id)
}

// Start 从第一波开始一局新的游戏
// 总是从头开始：取消进行中的一切并清场
func (s *WaveScheduler) Start() error {
	if len(s.waves) == 0 {
		s.reportError(ErrNoWaves)
		return ErrNoWaves
	}

	s.cancelWave()
	if !s.clearRegistryUnchanged() {
		return nil
	}
	s.paused = false
	s.runID = uuid.NewString()
	s.state.WaveInProgress = true
	s.state.SpawnPhaseActive = false

	log.Printf("[WaveScheduler] Run %s started: %d waves", s.runID, len(s.waves))
	s.beginWave(0)
	return nil
}

// AdvanceToNextWave 立即结束当前波次并进入下一波（最后一波时结束整局）
// 没有进行中的波次时不做任何事
func (s *WaveScheduler) AdvanceToNextWave() {
	if !s.state.WaveInProgress {
		return
	}

	s.logf("Manual advance from wave %d", s.state.CurrentWaveIndex+1)
	s.cancelWave()
	if !s.clearRegistryUnchanged() {
		return
	}
	s.advanceOrFinish()
}

// EndCurrentWave 立即结束当前波次并停在 WaveComplete
// 不执行完成策略，需要再调用 AdvanceToNextWave 才会继续
func (s *WaveScheduler) EndCurrentWave() {
	if !s.state.WaveInProgress {
		return
	}

	s.logf("Ending wave %d early", s.state.CurrentWaveIndex+1)
	s.cancelWave()
	s.stage = stageHeld
	if !s.clearRegistryUnchanged() {
		return
	}
	s.setPhase(types.PhaseWaveComplete)
}

// JumpToWave 取消当前一切并从指定波次（0-based）重新开始
// 索引越界时返回 ErrInvalidIndex，状态不变
func (s *WaveScheduler) JumpToWave(index int) error {
	if index < 0 || index >= len(s.waves) {
		return fmt.Errorf("jump to wave %d (total %d): %w", index, len(s.waves), ErrInvalidIndex)
	}

	s.cancelWave()
	if !s.clearRegistryUnchanged() {
		return nil
	}
	s.paused = false
	s.runID = uuid.NewString()
	s.state.WaveInProgress = true
	s.state.SpawnPhaseActive = false

	log.Printf("[WaveScheduler] Run %s jumped to wave %d/%d", s.runID, index+1, len(s.waves))
	s.beginWave(index)
	return nil
}

// StopAll 取消一切、清场并回到 Preparing
func (s *WaveScheduler) StopAll() {
	s.cancelWave()
	s.stage = stageIdle
	s.paused = false
	s.state.WaveInProgress = false
	s.state.SpawnPhaseActive = false
	if !s.clearRegistryUnchanged() {
		return
	}
	s.setPhase(types.PhasePreparing)
	log.Printf("[WaveScheduler] Stopped")
}

// NotifyEnemyDefeated 报告敌人被击败或移除
//
// 可以在任意 goroutine 中调用：通知先进入队列，在下一次 Update 开始时处理。
// 未被跟踪的实体（重复通知、已被清场的旧实体）会被忽略。
func (s *WaveScheduler) NotifyEnemyDefeated(id ecs.EntityID) {
	s.inboxMu.Lock()
	s.inbox = append(s.inbox, id)
	s.inboxMu.Unlock()
}

// Pause 暂停计时（击败通知仍会被处理）
func (s *WaveScheduler) Pause() {
	s.paused = true
}

// Resume 恢复计时
func (s *WaveScheduler) Resume() {
	s.paused = false
}

// IsPaused 是否处于暂停状态
func (s *WaveScheduler) IsPaused() bool {
	return s.paused
}

// Update 推进调度器 deltaTime 秒
//
// 执行流程：
//  1. 处理队列中的击败通知
//  2. 依次推进当前阶段；某一阶段提前结束时，剩余时间交给下一阶段
func (s *WaveScheduler) Update(deltaTime float64) {
	s.drainInbox()
	if s.paused {
		return
	}

	budget := deltaTime
	if budget < 0 {
		budget = 0
	}

	for {
		switch s.stage {
		case stageSpawning:
			if s.executor == nil {
				return
			}
			ctx := s.waveCtx
			budget = s.executor.Update(budget, s.emitFunc(s.spawnCtx))
			if ctx.Err() != nil {
				// 监听器在派发过程中调用了控制方法
				return
			}
			if !s.executor.Done() {
				return
			}
			s.nextGroup()
			if ctx.Err() != nil {
				return
			}

		case stageAwaitingClear:
			if s.state.RemainingEnemyCount > 0 {
				return
			}
			ctx := s.waveCtx
			s.completeWave()
			if ctx.Err() != nil {
				return
			}

		case stageTransitionDelay:
			if budget < s.delayRemaining {
				s.delayRemaining -= budget
				return
			}
			budget -= s.delayRemaining
			s.delayRemaining = 0
			s.advanceOrFinish()

		default:
			return
		}
	}
}

// Phase 当前阶段
func (s *WaveScheduler) Phase() types.GamePhase {
	return s.state.Phase
}

// CurrentWaveIndex 当前波次索引（0-based）
func (s *WaveScheduler) CurrentWaveIndex() int {
	return s.state.CurrentWaveIndex
}

// CurrentWave 当前波次档案的副本，没有波次时返回 nil
// 修改返回值不会影响调度器持有的波次
func (s *WaveScheduler) CurrentWave() *config.WaveProfile {
	if s.state.CurrentWaveIndex < 0 || s.state.CurrentWaveIndex >= len(s.waves) {
		return nil
	}
	return s.waveCopy(s.state.CurrentWaveIndex)
}

func (s *WaveScheduler) waveCopy(index int) *config.WaveProfile {
	wave := s.waves[index]
	wave.Groups = append([]config.WaveGroup(nil), wave.Groups...)
	return &wave
}

// TotalWaves 波次总数
func (s *WaveScheduler) TotalWaves() int {
	return len(s.waves)
}

// RemainingEnemies 当前波次剩余敌人数
func (s *WaveScheduler) RemainingEnemies() int {
	return s.state.RemainingEnemyCount
}

// WaveInProgress 是否有进行中的波次
func (s *WaveScheduler) WaveInProgress() bool {
	return s.state.WaveInProgress
}

// SpawnPhaseActive 是否正在出怪
func (s *WaveScheduler) SpawnPhaseActive() bool {
	return s.state.SpawnPhaseActive
}

// LiveCount 已生成且仍在跟踪中的敌人数量
func (s *WaveScheduler) LiveCount() int {
	return s.registry.Count()
}

// LiveEnemies 已生成且仍在跟踪中的敌人（按 ID 升序）
func (s *WaveScheduler) LiveEnemies() []ecs.EntityID {
	return s.registry.IDs()
}

// RunID 当前这一局的标识，Start/JumpToWave 时重新生成
func (s *WaveScheduler) RunID() string {
	return s.runID
}

// Snapshot 返回运行状态的副本
func (s *WaveScheduler) Snapshot() RunState {
	return s.state
}

// beginWave 进入第 index 波的处理
func (s *WaveScheduler) beginWave(index int) {
	s.cancelWave()
	s.waveCtx, s.waveCancel = context.WithCancel(context.Background())
	ctx := s.waveCtx

	wave := &s.waves[index]
	s.state.CurrentWaveIndex = index
	s.state.SpawnPhaseActive = true
	s.stage = stageSpawning
	s.groupIndex = 0
	s.spawnCtx, s.spawnCancel = context.WithCancel(ctx)
	s.executor = s.newExecutor(wave, 0)

	s.logf("Wave %d/%d %q: %d enemies in %d groups (boss=%v, completion=%s)",
		index+1, len(s.waves), wave.Name, wave.TotalEnemies(), len(wave.Groups), wave.IsBossWave, wave.Completion)

	s.dispatch(event.WaveIndexChanged, event.WaveChanged{Current: index + 1, Total: len(s.waves)})
	if ctx.Err() != nil {
		return
	}
	s.setPhase(types.PhaseSpawning)
	if ctx.Err() != nil {
		return
	}
	s.state.RemainingEnemyCount = wave.TotalEnemies()
	s.dispatch(event.RemainingCountChanged, event.RemainingChanged{Count: s.state.RemainingEnemyCount})
}

func (s *WaveScheduler) newExecutor(wave *config.WaveProfile, groupIndex int) *SpawnPatternExecutor {
	if groupIndex >= len(wave.Groups) {
		// 空分组列表：直接视为已完成
		return NewSpawnPatternExecutor(s.spawnCtx, config.WaveGroup{}, groupIndex, 0)
	}
	return NewSpawnPatternExecutor(s.spawnCtx, wave.Groups[groupIndex], groupIndex, wave.SpawnInterval)
}

// nextGroup 当前分组结束后，切换到下一个分组或结束生成阶段
func (s *WaveScheduler) nextGroup() {
	wave := &s.waves[s.state.CurrentWaveIndex]
	s.groupIndex++
	if s.groupIndex < len(wave.Groups) {
		s.executor = s.newExecutor(wave, s.groupIndex)
		return
	}

	s.cancelSpawning()
	s.stage = stageAwaitingClear
	s.logf("Wave %d spawning finished, %d remaining", s.state.CurrentWaveIndex+1, s.state.RemainingEnemyCount)
	s.setPhase(types.PhaseAwaitingClear)
}

// completeWave 波次清空，执行完成策略
func (s *WaveScheduler) completeWave() {
	ctx := s.waveCtx
	index := s.state.CurrentWaveIndex
	wave := &s.waves[index]

	switch wave.Completion {
	case config.CompletionWaitForManualAdvance:
		s.stage = stageManualAdvance
	default:
		s.stage = stageTransitionDelay
		s.delayRemaining = wave.PreWaveDelay
	}

	s.logf("Wave %d complete (completion=%s)", index+1, wave.Completion)
	s.setPhase(types.PhaseWaveComplete)
	if ctx.Err() != nil {
		return
	}

	if wave.Completion == config.CompletionTriggerEvent {
		s.dispatch(event.WaveEventTriggered, event.WaveTriggered{WaveIndex: index, Wave: s.waveCopy(index)})
	}
}

// advanceOrFinish 进入下一波；已是最后一波时结束整局
func (s *WaveScheduler) advanceOrFinish() {
	next := s.state.CurrentWaveIndex + 1
	if next < len(s.waves) {
		s.beginWave(next)
		return
	}
	s.finish()
}

func (s *WaveScheduler) finish() {
	s.cancelWave()
	s.stage = stageFinished
	s.state.WaveInProgress = false
	s.state.SpawnPhaseActive = false

	log.Printf("[WaveScheduler] Run %s finished after %d waves", s.runID, len(s.waves))
	s.waveCtx, s.waveCancel = context.WithCancel(context.Background())
	ctx := s.waveCtx

	s.setPhase(types.PhaseFinished)
	if ctx.Err() != nil {
		return
	}
	s.dispatch(event.RunFinished, event.Finished{TotalWaves: len(s.waves)})
}

// emitFunc 返回绑定到指定生成阶段的回调；阶段被取消后剩余请求直接丢弃
func (s *WaveScheduler) emitFunc(spawnCtx context.Context) func(SpawnRequest) {
	return func(req SpawnRequest) {
		if spawnCtx.Err() != nil {
			return
		}
		s.spawn(req)
	}
}

// spawn 处理一次生成请求；失败只报告错误，不影响后续请求
func (s *WaveScheduler) spawn(req SpawnRequest) {
	waveIndex := s.state.CurrentWaveIndex

	var point config.SpawnPoint
	var err error
	if s.locations == nil {
		err = ErrNoSpawnLocations
	} else {
		point, err = s.locations.PickLocation()
	}
	if err != nil {
		s.reportError(fmt.Errorf("wave %d group %d spawn %d: %w", waveIndex+1, req.GroupIndex, req.Ordinal, err))
		return
	}

	if s.spawner == nil {
		s.reportError(fmt.Errorf("wave %d group %d spawn %d: %w", waveIndex+1, req.GroupIndex, req.Ordinal, ErrNoSpawner))
		return
	}
	id, err := s.spawner.Spawn(req.Profile, point)
	if err != nil {
		s.reportError(fmt.Errorf("wave %d group %d spawn %d at %s: %w", waveIndex+1, req.GroupIndex, req.Ordinal, point.Name, err))
		return
	}

	s.registry.Register(id)
	if req.Profile != nil {
		s.logf("Spawned %s (entity %d) at %s", req.Profile.Name, id, point.Name)
	}
	s.dispatch(event.EnemySpawned, event.Spawned{ID: id, Profile: req.Profile, Point: point})
}

func (s *WaveScheduler) drainInbox() {
	s.inboxMu.Lock()
	pending := s.inbox
	s.inbox = nil
	s.inboxMu.Unlock()

	for _, id := range pending {
		s.applyDefeat(id)
	}
}

func (s *WaveScheduler) applyDefeat(id ecs.EntityID) {
	if !s.registry.Deregister(id) {
		return
	}
	if s.state.RemainingEnemyCount > 0 {
		s.state.RemainingEnemyCount--
	}
	s.logf("Enemy %d defeated, %d remaining", id, s.state.RemainingEnemyCount)
	s.dispatch(event.RemainingCountChanged, event.RemainingChanged{Count: s.state.RemainingEnemyCount})
}

// clearRegistry 清场：移除所有跟踪中的敌人，剩余数量归零
func (s *WaveScheduler) clearRegistry() {
	removed := s.registry.ClearAll()
	if s.spawner != nil {
		for _, id := range removed {
			s.spawner.Despawn(id)
		}
	}
	if len(removed) > 0 {
		s.logf("Cleared %d live enemies", len(removed))
	}
	s.state.RemainingEnemyCount = 0
	s.dispatch(event.RemainingCountChanged, event.RemainingChanged{Count: 0})
}

// clearRegistryUnchanged 清场，返回 false 表示监听器在派发期间调用了控制方法，
// 调用方应直接返回
func (s *WaveScheduler) clearRegistryUnchanged() bool {
	gen := s.generation
	s.clearRegistry()
	return s.generation == gen
}

func (s *WaveScheduler) cancelSpawning() {
	if s.spawnCancel != nil {
		s.spawnCancel()
		s.spawnCancel = nil
	}
	s.executor = nil
	s.state.SpawnPhaseActive = false
}

func (s *WaveScheduler) cancelWave() {
	s.generation++
	s.cancelSpawning()
	if s.waveCancel != nil {
		s.waveCancel()
		s.waveCancel = nil
	}
	s.delayRemaining = 0
}

func (s *WaveScheduler) setPhase(phase types.GamePhase) {
	s.state.Phase = phase
	s.logf("Phase -> %s", phase)
	s.dispatch(event.WavePhaseChanged, event.PhaseChanged{Phase: phase})
}

func (s *WaveScheduler) dispatch(eventType event.EventType, data any) {
	s.dispatcher.Dispatch(event.Event{Type: eventType, Data: data})
}

func (s *WaveScheduler) reportError(err error) {
	log.Printf("[WaveScheduler] ERROR: %v", err)
	s.dispatch(event.ErrorReported, event.Failure{Err: err})
}

func (s *WaveScheduler) logf(format string, args ...any) {
	if s.verbose {
		log.Printf("[WaveScheduler] "+format, args...)
	}
}

// IsConfigurationError 判断错误是否为配置类错误（缺少出生点或生成器、没有波次）
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrNoSpawnLocations) || errors.Is(err, ErrNoWaves) || errors.Is(err, ErrNoSpawner)
}
