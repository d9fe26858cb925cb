package components

// HealthComponent 存储实体的生命值信息
type HealthComponent struct {
	CurrentHealth int // 当前生命值
	MaxHealth     int // 最大生命值
}

// IsDepleted 生命值是否已耗尽
func (h *HealthComponent) IsDepleted() bool {
	return h.CurrentHealth <= 0
}
