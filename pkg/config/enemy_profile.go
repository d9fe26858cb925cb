package config

import (
	"fmt"
	"os"

	"github.com/decker502/horde/pkg/types"
	"gopkg.in/yaml.v3"
)

// 敌人档案默认值（与内容编辑器中的默认值一致）
const (
	DefaultEnemyMaxHealth   = 100
	DefaultEnemyDamage      = 10
	DefaultEnemyScorePoints = 25
	DefaultEnemyMoveSpeed   = 3.0
	DefaultEnemyAttackRange = 2.0
	DefaultEnemyAttackRate  = 1.0
)

// EnemyKindProfile 单个敌人种类的静态属性
// 加载后不可修改；波次分组只持有指针引用，不拥有它
type EnemyKindProfile struct {
	Name        string        `yaml:"name"`        // 唯一名称，波次分组通过它引用
	MaxHealth   int           `yaml:"maxHealth"`   // 最大生命值（>0）
	Damage      int           `yaml:"damage"`      // 攻击伤害（>=0）
	ScorePoints int           `yaml:"scorePoints"` // 击败后得分（>=0）
	Kind        types.KindTag `yaml:"kind"`        // 种类标签

	// 以下字段仅供宿主的敌人行为使用，调度器不读取
	MoveSpeed   float64 `yaml:"moveSpeed"`
	AttackRange float64 `yaml:"attackRange"`
	AttackRate  float64 `yaml:"attackRate"`
}

// UnmarshalYAML 先填入默认值再解码，未写出的字段保留默认值
func (p *EnemyKindProfile) UnmarshalYAML(value *yaml.Node) error {
	type rawProfile EnemyKindProfile
	raw := rawProfile{
		MaxHealth:   DefaultEnemyMaxHealth,
		Damage:      DefaultEnemyDamage,
		ScorePoints: DefaultEnemyScorePoints,
		Kind:        types.KindBasic,
		MoveSpeed:   DefaultEnemyMoveSpeed,
		AttackRange: DefaultEnemyAttackRange,
		AttackRate:  DefaultEnemyAttackRate,
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*p = EnemyKindProfile(raw)
	return nil
}

// EnemyCatalog 敌人档案目录
type EnemyCatalog struct {
	Enemies []*EnemyKindProfile `yaml:"enemies"`

	byName map[string]*EnemyKindProfile
}

// LoadEnemyCatalog 从 YAML 文件加载敌人档案目录
// 参数：
//
//	filepath - 配置文件路径
//
// 返回：
//
//	*EnemyCatalog - 解析并验证后的目录
//	error - 读取、解析或验证失败
func LoadEnemyCatalog(filepath string) (*EnemyCatalog, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read enemy catalog file %s: %w", filepath, err)
	}
	return ParseEnemyCatalog(data, filepath)
}

// ParseEnemyCatalog 解析 YAML 数据；source 仅用于错误信息
func ParseEnemyCatalog(data []byte, source string) (*EnemyCatalog, error) {
	var catalog EnemyCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse enemy catalog YAML from %s: %w", source, err)
	}

	if err := validateEnemyCatalog(&catalog); err != nil {
		return nil, fmt.Errorf("invalid enemy catalog in %s: %w", source, err)
	}

	catalog.index()
	return &catalog, nil
}

// NewEnemyCatalog 用已构造好的档案创建目录（测试和代码内配置使用）
func NewEnemyCatalog(profiles ...*EnemyKindProfile) (*EnemyCatalog, error) {
	catalog := &EnemyCatalog{Enemies: profiles}
	if err := validateEnemyCatalog(catalog); err != nil {
		return nil, err
	}
	catalog.index()
	return catalog, nil
}

func (c *EnemyCatalog) index() {
	c.byName = make(map[string]*EnemyKindProfile, len(c.Enemies))
	for _, p := range c.Enemies {
		c.byName[p.Name] = p
	}
}

// Lookup 按名称查找敌人档案
func (c *EnemyCatalog) Lookup(name string) (*EnemyKindProfile, bool) {
	if c == nil {
		return nil, false
	}
	p, ok := c.byName[name]
	return p, ok
}

// Len 返回档案数量
func (c *EnemyCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Enemies)
}

// validateEnemyCatalog 验证敌人档案的完整性和合法性
func validateEnemyCatalog(catalog *EnemyCatalog) error {
	if len(catalog.Enemies) == 0 {
		return fmt.Errorf("at least one enemy profile is required")
	}

	seen := make(map[string]bool, len(catalog.Enemies))
	for i, p := range catalog.Enemies {
		if p == nil {
			return fmt.Errorf("enemy %d: empty profile", i)
		}
		if p.Name == "" {
			return fmt.Errorf("enemy %d: name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("enemy %s: duplicate name", p.Name)
		}
		seen[p.Name] = true

		if p.MaxHealth < 1 {
			return fmt.Errorf("enemy %s: maxHealth must be at least 1, got %d", p.Name, p.MaxHealth)
		}
		if p.Damage < 0 {
			return fmt.Errorf("enemy %s: damage cannot be negative, got %d", p.Name, p.Damage)
		}
		if p.ScorePoints < 0 {
			return fmt.Errorf("enemy %s: scorePoints cannot be negative, got %d", p.Name, p.ScorePoints)
		}
	}

	return nil
}
