package systems

import (
	"sort"

	"github.com/decker502/horde/pkg/ecs"
)

// LiveEnemyRegistry 记录当前波次中存活的已生成敌人
//
// 非并发安全：只能由 WaveScheduler 在控制循环中访问，
// 外部的击败通知需经由 WaveScheduler.NotifyEnemyDefeated 串行化。
type LiveEnemyRegistry struct {
	alive map[ecs.EntityID]struct{}
}

// NewLiveEnemyRegistry 创建空的登记表
func NewLiveEnemyRegistry() *LiveEnemyRegistry {
	return &LiveEnemyRegistry{
		alive: make(map[ecs.EntityID]struct{}),
	}
}

// Register 登记实体，重复登记返回 false
func (r *LiveEnemyRegistry) Register(id ecs.EntityID) bool {
	if _, exists := r.alive[id]; exists {
		return false
	}
	r.alive[id] = struct{}{}
	return true
}

// Deregister 移除实体，返回该实体之前是否在登记表中
func (r *LiveEnemyRegistry) Deregister(id ecs.EntityID) bool {
	if _, exists := r.alive[id]; !exists {
		return false
	}
	delete(r.alive, id)
	return true
}

// Contains 检查实体是否在登记表中
func (r *LiveEnemyRegistry) Contains(id ecs.EntityID) bool {
	_, exists := r.alive[id]
	return exists
}

// ClearAll 清空登记表，返回被移除的实体（按 ID 升序）
func (r *LiveEnemyRegistry) ClearAll() []ecs.EntityID {
	removed := r.IDs()
	r.alive = make(map[ecs.EntityID]struct{})
	return removed
}

// Count 返回登记的实体数量
func (r *LiveEnemyRegistry) Count() int {
	return len(r.alive)
}

// IDs 返回当前登记的实体（按 ID 升序）
func (r *LiveEnemyRegistry) IDs() []ecs.EntityID {
	ids := make([]ecs.EntityID, 0, len(r.alive))
	for id := range r.alive {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
