package systems

import (
	"fmt"
	"log"

	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/decker502/horde/pkg/entities"
)

// Damageable 可受伤害的敌人子系统
type Damageable interface {
	// TakeDamage 对实体造成伤害，返回本次是否击败了它
	TakeDamage(id ecs.EntityID, amount int) bool
}

// EnemySystem 敌人子系统
//
// 职责：
//   - 实现 EntitySpawner：在 ECS 中创建/移除敌人实体
//   - 处理伤害、击败、计分
//   - 击败时通过回调通知调度器（每个实体恰好一次）
//
// 敌人的移动、攻击、动画不在这里处理。
type EnemySystem struct {
	entityManager *ecs.EntityManager

	// onDefeated 击败回调（通常是 WaveScheduler.NotifyEnemyDefeated）
	onDefeated func(ecs.EntityID)

	// maxAlive 同时存活的上限，0 表示不限制
	maxAlive int

	score    int
	defeated int
}

// NewEnemySystem 创建敌人子系统
//
// 参数：
//   - em: 实体管理器
//   - maxAlive: 同时存活的敌人上限（0 表示不限制），达到上限时 Spawn 返回 ErrNoLocationsAvailable
func NewEnemySystem(em *ecs.EntityManager, maxAlive int) *EnemySystem {
	if maxAlive < 0 {
		maxAlive = 0
	}
	return &EnemySystem{
		entityManager: em,
		maxAlive:      maxAlive,
	}
}

// SetDefeatHandler 设置击败回调
func (s *EnemySystem) SetDefeatHandler(fn func(ecs.EntityID)) {
	s.onDefeated = fn
}

// Spawn 实现 EntitySpawner
func (s *EnemySystem) Spawn(profile *config.EnemyKindProfile, point config.SpawnPoint) (ecs.EntityID, error) {
	if s.maxAlive > 0 && len(s.Alive()) >= s.maxAlive {
		return ecs.InvalidEntity, fmt.Errorf("%d enemies alive at capacity: %w", s.maxAlive, ErrNoLocationsAvailable)
	}
	return entities.NewEnemyEntity(s.entityManager, profile, point)
}

// Despawn 实现 EntitySpawner：直接移除实体，不计分也不回调
func (s *EnemySystem) Despawn(id ecs.EntityID) {
	if enemy, ok := ecs.GetComponent[*components.EnemyComponent](s.entityManager, id); ok {
		enemy.State = components.EnemyDead
	}
	s.entityManager.DestroyEntity(id)
}

// TakeDamage 实现 Damageable
func (s *EnemySystem) TakeDamage(id ecs.EntityID, amount int) bool {
	enemy, ok := ecs.GetComponent[*components.EnemyComponent](s.entityManager, id)
	if !ok || enemy.State != components.EnemyAlive {
		return false
	}
	health, ok := ecs.GetComponent[*components.HealthComponent](s.entityManager, id)
	if !ok || amount <= 0 {
		return false
	}

	health.CurrentHealth -= amount
	if !health.IsDepleted() {
		return false
	}

	enemy.State = components.EnemyDead
	s.entityManager.DestroyEntity(id)
	s.defeated++
	if enemy.Profile != nil {
		s.score += enemy.Profile.ScorePoints
		log.Printf("[EnemySystem] %s (entity %d) defeated, +%d points", enemy.Profile.Name, id, enemy.Profile.ScorePoints)
	}

	if s.onDefeated != nil {
		s.onDefeated(id)
	}
	return true
}

// Update 累计存活时间并清理已死亡的实体
func (s *EnemySystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.EnemyComponent](s.entityManager) {
		enemy, _ := ecs.GetComponent[*components.EnemyComponent](s.entityManager, id)
		if enemy.State == components.EnemyAlive {
			enemy.Age += deltaTime
		}
	}
	s.entityManager.RemoveMarkedEntities()
}

// Alive 返回存活的敌人（按创建顺序）
func (s *EnemySystem) Alive() []ecs.EntityID {
	result := make([]ecs.EntityID, 0)
	for _, id := range ecs.GetEntitiesWith1[*components.EnemyComponent](s.entityManager) {
		enemy, _ := ecs.GetComponent[*components.EnemyComponent](s.entityManager, id)
		if enemy.State == components.EnemyAlive {
			result = append(result, id)
		}
	}
	return result
}

// Score 累计得分
func (s *EnemySystem) Score() int {
	return s.score
}

// Defeated 累计击败数
func (s *EnemySystem) Defeated() int {
	return s.defeated
}

// ResetScore 清零得分和击败数（开始新的一局时调用）
func (s *EnemySystem) ResetScore() {
	s.score = 0
	s.defeated = 0
}
