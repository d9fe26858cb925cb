package event

import (
	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/decker502/horde/pkg/types"
)

const (
	WavePhaseChanged      EventType = "WavePhaseChanged"      // 阶段变化，Data: PhaseChanged
	WaveIndexChanged      EventType = "WaveIndexChanged"      // 进入新波次，Data: WaveChanged
	RemainingCountChanged EventType = "RemainingCountChanged" // 剩余敌人数变化，Data: RemainingChanged
	EnemySpawned          EventType = "EnemySpawned"          // 敌人已生成并登记，Data: Spawned
	WaveEventTriggered    EventType = "WaveEventTriggered"    // triggerEvent 策略的波次完成，Data: WaveTriggered
	RunFinished           EventType = "RunFinished"           // 全部波次结束，Data: Finished
	ErrorReported         EventType = "ErrorReported"         // 非致命配置错误，Data: Failure
)

// PhaseChanged 阶段变化
type PhaseChanged struct {
	Phase types.GamePhase
}

// WaveChanged 波次变化，Current 为 1-based
type WaveChanged struct {
	Current int
	Total   int
}

// RemainingChanged 剩余敌人数
type RemainingChanged struct {
	Count int
}

// Spawned 敌人生成
type Spawned struct {
	ID      ecs.EntityID
	Profile *config.EnemyKindProfile
	Point   config.SpawnPoint
}

// WaveTriggered 波次事件（0-based 索引）
type WaveTriggered struct {
	WaveIndex int
	Wave      *config.WaveProfile
}

// Finished 全部波次结束
type Finished struct {
	TotalWaves int
}

// Failure 非致命错误
type Failure struct {
	Err error
}
