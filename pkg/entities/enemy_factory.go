package entities

import (
	"fmt"

	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/ecs"
)

// NewEnemyEntity 创建敌人实体
// 敌人在出生点生成，生命值取自档案的 MaxHealth，初始状态为存活
//
// 参数:
//   - em: 实体管理器
//   - profile: 敌人档案（实体只持有引用）
//   - point: 出生点
//
// 返回:
//   - ecs.EntityID: 创建的实体ID，如果失败返回 0
//   - error: 如果创建失败返回错误信息
func NewEnemyEntity(em *ecs.EntityManager, profile *config.EnemyKindProfile, point config.SpawnPoint) (ecs.EntityID, error) {
	if em == nil {
		return ecs.InvalidEntity, fmt.Errorf("entity manager cannot be nil")
	}
	if profile == nil {
		return ecs.InvalidEntity, fmt.Errorf("enemy profile cannot be nil")
	}
	if profile.MaxHealth < 1 {
		return ecs.InvalidEntity, fmt.Errorf("enemy %s: maxHealth must be at least 1", profile.Name)
	}

	id := em.CreateEntity()

	ecs.AddComponent(em, id, &components.PositionComponent{X: point.X, Y: point.Y})
	ecs.AddComponent(em, id, &components.HealthComponent{
		CurrentHealth: profile.MaxHealth,
		MaxHealth:     profile.MaxHealth,
	})
	ecs.AddComponent(em, id, &components.EnemyComponent{
		Profile:    profile,
		State:      components.EnemyAlive,
		SpawnPoint: point.Name,
	})

	return id, nil
}
