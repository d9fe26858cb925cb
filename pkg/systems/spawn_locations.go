package systems

import (
	"math/rand"

	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/ecs"
)

// EntitySpawner 敌人实例化能力，由敌人子系统实现
type EntitySpawner interface {
	// Spawn 在出生点生成一个敌人；无法生成时返回 ErrNoLocationsAvailable（可包装）
	Spawn(profile *config.EnemyKindProfile, point config.SpawnPoint) (ecs.EntityID, error)
	// Despawn 直接移除实体（批量清场使用，不计分也不回调）
	Despawn(id ecs.EntityID)
}

// LocationProvider 出生点选择
type LocationProvider interface {
	// PickLocation 返回一个出生点；没有配置任何出生点时返回 ErrNoSpawnLocations
	PickLocation() (config.SpawnPoint, error)
}

// RandomLocationProvider 在配置的出生点中均匀随机选择
type RandomLocationProvider struct {
	points []config.SpawnPoint
	rng    *rand.Rand
}

// NewRandomLocationProvider 创建随机出生点选择器
// seed 固定时选择序列可复现（测试使用）
func NewRandomLocationProvider(points []config.SpawnPoint, seed int64) *RandomLocationProvider {
	copied := make([]config.SpawnPoint, len(points))
	copy(copied, points)
	return &RandomLocationProvider{
		points: copied,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// PickLocation 实现 LocationProvider
func (p *RandomLocationProvider) PickLocation() (config.SpawnPoint, error) {
	if p == nil || len(p.points) == 0 {
		return config.SpawnPoint{}, ErrNoSpawnLocations
	}
	return p.points[p.rng.Intn(len(p.points))], nil
}

// Len 返回出生点数量
func (p *RandomLocationProvider) Len() int {
	if p == nil {
		return 0
	}
	return len(p.points)
}
