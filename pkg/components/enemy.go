package components

import "github.com/decker502/horde/pkg/config"

// EnemyState 敌人生命周期状态
type EnemyState int

const (
	EnemySpawning EnemyState = iota // 刚创建，尚未初始化
	EnemyAlive                      // 存活
	EnemyDead                       // 已被击败，等待清理
)

// EnemyComponent 敌人组件
// 注意：遵循 ECS 原则，组件仅存储数据
type EnemyComponent struct {
	// Profile 敌人档案（引用，不拥有）
	Profile *config.EnemyKindProfile

	// State 当前生命周期状态
	State EnemyState

	// SpawnPoint 生成时使用的出生点名称（调试用）
	SpawnPoint string

	// Age 存活时间（秒）
	Age float64
}
