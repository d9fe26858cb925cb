package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// 波次默认值（秒）
const (
	DefaultSpawnInterval = 1.0
	DefaultWaveDuration  = 30.0
	DefaultPreWaveDelay  = 5.0
)

// SpawnPattern 分组内的出怪模式
type SpawnPattern int

const (
	PatternSequential   SpawnPattern = iota // 逐个生成，间隔 spawnInterval
	PatternSimultaneous                     // 同一时刻全部生成
	PatternBurst                            // 每 3 个一批，批间隔 2*spawnInterval
)

var patternNames = map[SpawnPattern]string{
	PatternSequential:   "sequential",
	PatternSimultaneous: "simultaneous",
	PatternBurst:        "burst",
}

func (p SpawnPattern) String() string {
	if name, ok := patternNames[p]; ok {
		return name
	}
	return fmt.Sprintf("SpawnPattern(%d)", int(p))
}

// ParseSpawnPattern 解析出怪模式名称，空字符串视为 sequential
func ParseSpawnPattern(s string) (SpawnPattern, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PatternSequential, nil
	}
	for p, name := range patternNames {
		if name == s {
			return p, nil
		}
	}
	return PatternSequential, fmt.Errorf("unknown spawn pattern %q (must be one of: sequential, simultaneous, burst)", s)
}

func (p *SpawnPattern) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseSpawnPattern(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p SpawnPattern) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// CompletionPolicy 波次清空后的处理策略
type CompletionPolicy int

const (
	CompletionContinue             CompletionPolicy = iota // 等待 preWaveDelay 后自动进入下一波
	CompletionWaitForManualAdvance                         // 等待外部手动推进
	CompletionTriggerEvent                                 // 派发波次事件，其余同 Continue
)

var completionNames = map[CompletionPolicy]string{
	CompletionContinue:             "continue",
	CompletionWaitForManualAdvance: "waitForManualAdvance",
	CompletionTriggerEvent:         "triggerEvent",
}

func (c CompletionPolicy) String() string {
	if name, ok := completionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CompletionPolicy(%d)", int(c))
}

// ParseCompletionPolicy 解析完成策略名称（大小写不敏感），空字符串视为 continue
func ParseCompletionPolicy(s string) (CompletionPolicy, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CompletionContinue, nil
	}
	for c, name := range completionNames {
		if strings.EqualFold(name, s) {
			return c, nil
		}
	}
	return CompletionContinue, fmt.Errorf("unknown completion policy %q (must be one of: continue, waitForManualAdvance, triggerEvent)", s)
}

func (c *CompletionPolicy) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseCompletionPolicy(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c CompletionPolicy) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// WaveGroup 波次中的一个敌人分组
// 值语义，可复制；Enemy 指向目录中的档案
type WaveGroup struct {
	EnemyName string            `yaml:"enemy"`   // 引用的敌人档案名称
	Count     int               `yaml:"count"`   // 数量（>0）
	Pattern   SpawnPattern      `yaml:"pattern"` // 出怪模式
	Enemy     *EnemyKindProfile `yaml:"-"`       // 加载时解析
}

// WaveProfile 单个波次的不可变描述
type WaveProfile struct {
	Name          string           `yaml:"name"`
	WaveNumber    int              `yaml:"waveNumber"`
	Groups        []WaveGroup      `yaml:"groups"`        // 按声明顺序依次执行
	SpawnInterval float64          `yaml:"spawnInterval"` // 逐个生成的间隔（秒）
	WaveDuration  float64          `yaml:"waveDuration"`  // 仅供参考，调度逻辑不使用
	PreWaveDelay  float64          `yaml:"preWaveDelay"`  // 清空后进入下一波前的等待（秒）
	IsBossWave    bool             `yaml:"bossWave"`
	Completion    CompletionPolicy `yaml:"completion"`
}

// UnmarshalYAML 先填入默认值再解码
func (w *WaveProfile) UnmarshalYAML(value *yaml.Node) error {
	type rawWave WaveProfile
	raw := rawWave{
		SpawnInterval: DefaultSpawnInterval,
		WaveDuration:  DefaultWaveDuration,
		PreWaveDelay:  DefaultPreWaveDelay,
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*w = WaveProfile(raw)
	return nil
}

// TotalEnemies 返回本波所有分组的数量总和
func (w WaveProfile) TotalEnemies() int {
	total := 0
	for _, g := range w.Groups {
		total += g.Count
	}
	return total
}

// SpawnPoint 出生点
type SpawnPoint struct {
	Name string  `yaml:"name"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// RunConfig 一局游戏的配置：有序的波次列表、出生点和调试开关
type RunConfig struct {
	Debug       bool          `yaml:"debug"`       // 仅影响日志，不影响调度逻辑
	SpawnPoints []SpawnPoint  `yaml:"spawnPoints"` // 允许为空（运行时报告配置错误）
	Waves       []WaveProfile `yaml:"waves"`
}

// LoadRunConfig 从YAML文件加载波次配置
// 参数：
//
//	filepath - 配置文件路径
//	catalog - 敌人档案目录，用于解析分组中的 enemy 引用
//
// 返回：
//
//	*RunConfig - 解析后的配置
//	error - 如果文件读取、解析或验证失败
func LoadRunConfig(filepath string, catalog *EnemyCatalog) (*RunConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read wave config file %s: %w", filepath, err)
	}
	return ParseRunConfig(data, catalog, filepath)
}

// ParseRunConfig 解析 YAML 数据；source 仅用于错误信息
func ParseRunConfig(data []byte, catalog *EnemyCatalog, source string) (*RunConfig, error) {
	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse wave config YAML from %s: %w", source, err)
	}

	applyRunDefaults(&cfg)

	if err := resolveEnemies(&cfg, catalog); err != nil {
		return nil, fmt.Errorf("invalid wave config in %s: %w", source, err)
	}

	if err := validateRunConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid wave config in %s: %w", source, err)
	}

	return &cfg, nil
}

// applyRunDefaults 为缺失的可选字段设置默认值
func applyRunDefaults(cfg *RunConfig) {
	for i := range cfg.Waves {
		w := &cfg.Waves[i]
		// waveNumber 未配置时使用 1-based 序号
		if w.WaveNumber == 0 {
			w.WaveNumber = i + 1
		}
		if w.Name == "" {
			w.Name = fmt.Sprintf("Wave %d", w.WaveNumber)
		}
	}

	for i := range cfg.SpawnPoints {
		if cfg.SpawnPoints[i].Name == "" {
			cfg.SpawnPoints[i].Name = fmt.Sprintf("spawn-%d", i+1)
		}
	}
}

// resolveEnemies 将分组中的 enemy 名称解析为目录中的档案指针
func resolveEnemies(cfg *RunConfig, catalog *EnemyCatalog) error {
	for i := range cfg.Waves {
		for j := range cfg.Waves[i].Groups {
			g := &cfg.Waves[i].Groups[j]
			if g.EnemyName == "" {
				return fmt.Errorf("wave %d, group %d: enemy is required", i, j)
			}
			profile, ok := catalog.Lookup(g.EnemyName)
			if !ok {
				return fmt.Errorf("wave %d, group %d: unknown enemy %q", i, j, g.EnemyName)
			}
			g.Enemy = profile
		}
	}
	return nil
}

// validateRunConfig 验证波次配置的完整性和合法性
func validateRunConfig(cfg *RunConfig) error {
	if len(cfg.Waves) == 0 {
		return fmt.Errorf("at least one wave is required")
	}

	for i, wave := range cfg.Waves {
		if len(wave.Groups) == 0 {
			return fmt.Errorf("wave %d: at least one group is required", i)
		}
		if wave.SpawnInterval < 0 {
			return fmt.Errorf("wave %d: spawnInterval cannot be negative", i)
		}
		if wave.PreWaveDelay < 0 {
			return fmt.Errorf("wave %d: preWaveDelay cannot be negative", i)
		}

		for j, group := range wave.Groups {
			if group.Count < 1 {
				return fmt.Errorf("wave %d, group %d: count must be at least 1, got %d", i, j, group.Count)
			}
			if group.Enemy == nil {
				return fmt.Errorf("wave %d, group %d: enemy profile not resolved", i, j)
			}
		}
	}

	return nil
}

// ValidateWaves 验证代码内构造的波次列表（未经过 YAML 加载）
func ValidateWaves(waves []WaveProfile) error {
	return validateRunConfig(&RunConfig{Waves: waves})
}
