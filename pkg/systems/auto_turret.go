package systems

import "github.com/decker502/horde/pkg/ecs"

// AutoTurret 定时攻击最早生成的存活敌人，用于无人值守地清空波次
type AutoTurret struct {
	target   Damageable
	alive    func() []ecs.EntityID
	damage   int
	cooldown float64
	timer    float64
	enabled  bool
}

// NewAutoTurret 创建自动炮台
//
// 参数：
//   - target: 伤害接收方
//   - alive: 返回当前存活敌人（按创建顺序）
//   - damage: 每次攻击的伤害
//   - cooldown: 攻击间隔（秒）
func NewAutoTurret(target Damageable, alive func() []ecs.EntityID, damage int, cooldown float64) *AutoTurret {
	return &AutoTurret{
		target:   target,
		alive:    alive,
		damage:   damage,
		cooldown: cooldown,
		timer:    cooldown,
	}
}

// SetEnabled 开启/关闭自动攻击
func (t *AutoTurret) SetEnabled(enabled bool) {
	t.enabled = enabled
	t.timer = t.cooldown
}

// Enabled 是否开启
func (t *AutoTurret) Enabled() bool {
	return t.enabled
}

// Update 推进计时，返回本帧击败的敌人数量
func (t *AutoTurret) Update(deltaTime float64) int {
	if !t.enabled {
		return 0
	}

	kills := 0
	t.timer -= deltaTime
	for t.timer <= 0 {
		t.timer += t.cooldown
		ids := t.alive()
		if len(ids) > 0 && t.target.TakeDamage(ids[0], t.damage) {
			kills++
		}
		if t.cooldown <= 0 {
			break
		}
	}
	return kills
}
