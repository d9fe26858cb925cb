package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/decker502/horde/pkg/types"
)

const testEnemiesYAML = `
enemies:
  - name: grunt
    maxHealth: 100
    damage: 10
    scorePoints: 25
  - name: boss
    maxHealth: 2000
    damage: 0
    scorePoints: 500
    kind: boss
`

// createTestCatalog 创建测试用敌人目录
func createTestCatalog(t *testing.T) *EnemyCatalog {
	t.Helper()
	catalog, err := ParseEnemyCatalog([]byte(testEnemiesYAML), "test")
	if err != nil {
		t.Fatalf("failed to parse test catalog: %v", err)
	}
	return catalog
}

// writeTempFile 写入临时配置文件
func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoadRunConfig_ValidConfig(t *testing.T) {
	catalog := createTestCatalog(t)
	path := writeTempFile(t, "waves.yaml", `
debug: true
spawnPoints:
  - { name: gate, x: 10, y: 20 }
  - { x: 30, y: 40 }
waves:
  - name: Opening
    groups:
      - { enemy: grunt, count: 3, pattern: sequential }
    spawnInterval: 1
    preWaveDelay: 5
  - groups:
      - { enemy: grunt, count: 7, pattern: burst }
      - { enemy: boss, count: 1, pattern: simultaneous }
    bossWave: true
    completion: waitForManualAdvance
`)

	cfg, err := LoadRunConfig(path, catalog)
	if err != nil {
		t.Fatalf("LoadRunConfig failed: %v", err)
	}

	if !cfg.Debug {
		t.Error("期望 debug=true")
	}
	if len(cfg.Waves) != 2 {
		t.Fatalf("期望 2 个波次, 实际 %d", len(cfg.Waves))
	}
	if len(cfg.SpawnPoints) != 2 || cfg.SpawnPoints[1].Name != "spawn-2" {
		t.Errorf("未命名出生点应使用默认名称, 实际 %+v", cfg.SpawnPoints)
	}

	first := cfg.Waves[0]
	if first.Name != "Opening" || first.WaveNumber != 1 {
		t.Errorf("第一波名称/序号不正确: %q %d", first.Name, first.WaveNumber)
	}
	if first.TotalEnemies() != 3 {
		t.Errorf("期望第一波共 3 个敌人, 实际 %d", first.TotalEnemies())
	}
	if first.Groups[0].Enemy == nil || first.Groups[0].Enemy.Name != "grunt" {
		t.Errorf("enemy 引用未解析: %+v", first.Groups[0])
	}

	second := cfg.Waves[1]
	if second.Name != "Wave 2" || second.WaveNumber != 2 {
		t.Errorf("第二波默认名称/序号不正确: %q %d", second.Name, second.WaveNumber)
	}
	// 未配置的时间参数使用默认值
	if second.SpawnInterval != DefaultSpawnInterval {
		t.Errorf("期望 spawnInterval=%v, 实际 %v", DefaultSpawnInterval, second.SpawnInterval)
	}
	if second.PreWaveDelay != DefaultPreWaveDelay {
		t.Errorf("期望 preWaveDelay=%v, 实际 %v", DefaultPreWaveDelay, second.PreWaveDelay)
	}
	if second.WaveDuration != DefaultWaveDuration {
		t.Errorf("期望 waveDuration=%v, 实际 %v", DefaultWaveDuration, second.WaveDuration)
	}
	if !second.IsBossWave {
		t.Error("期望 bossWave=true")
	}
	if second.Completion != CompletionWaitForManualAdvance {
		t.Errorf("期望 waitForManualAdvance, 实际 %v", second.Completion)
	}
	if second.Groups[0].Pattern != PatternBurst || second.Groups[1].Pattern != PatternSimultaneous {
		t.Errorf("出怪模式解析错误: %v %v", second.Groups[0].Pattern, second.Groups[1].Pattern)
	}
	if second.Groups[1].Enemy.Kind != types.KindBoss {
		t.Errorf("期望 boss 种类, 实际 %v", second.Groups[1].Enemy.Kind)
	}
}

func TestLoadRunConfig_SharedProfileReference(t *testing.T) {
	catalog := createTestCatalog(t)
	cfg, err := ParseRunConfig([]byte(`
waves:
  - groups:
      - { enemy: grunt, count: 1 }
  - groups:
      - { enemy: grunt, count: 2 }
`), catalog, "inline")
	if err != nil {
		t.Fatalf("ParseRunConfig failed: %v", err)
	}

	grunt, _ := catalog.Lookup("grunt")
	if cfg.Waves[0].Groups[0].Enemy != grunt || cfg.Waves[1].Groups[0].Enemy != grunt {
		t.Error("分组应引用目录中的同一个档案，而不是副本")
	}
}

func TestLoadRunConfig_ZeroIntervalsAllowed(t *testing.T) {
	catalog := createTestCatalog(t)
	cfg, err := ParseRunConfig([]byte(`
waves:
  - groups:
      - { enemy: grunt, count: 2 }
    spawnInterval: 0
    preWaveDelay: 0
`), catalog, "inline")
	if err != nil {
		t.Fatalf("ParseRunConfig failed: %v", err)
	}
	if cfg.Waves[0].SpawnInterval != 0 || cfg.Waves[0].PreWaveDelay != 0 {
		t.Errorf("显式配置的 0 不应被默认值覆盖: %+v", cfg.Waves[0])
	}
}

func TestLoadRunConfig_Invalid(t *testing.T) {
	catalog := createTestCatalog(t)
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "no waves",
			yaml:    "waves: []\n",
			wantErr: "at least one wave",
		},
		{
			name:    "empty groups",
			yaml:    "waves:\n  - name: x\n",
			wantErr: "at least one group",
		},
		{
			name:    "unknown enemy",
			yaml:    "waves:\n  - groups:\n      - { enemy: dragon, count: 1 }\n",
			wantErr: "unknown enemy",
		},
		{
			name:    "missing enemy",
			yaml:    "waves:\n  - groups:\n      - { count: 1 }\n",
			wantErr: "enemy is required",
		},
		{
			name:    "zero count",
			yaml:    "waves:\n  - groups:\n      - { enemy: grunt, count: 0 }\n",
			wantErr: "count must be at least 1",
		},
		{
			name:    "negative interval",
			yaml:    "waves:\n  - groups:\n      - { enemy: grunt, count: 1 }\n    spawnInterval: -1\n",
			wantErr: "spawnInterval cannot be negative",
		},
		{
			name:    "negative delay",
			yaml:    "waves:\n  - groups:\n      - { enemy: grunt, count: 1 }\n    preWaveDelay: -2\n",
			wantErr: "preWaveDelay cannot be negative",
		},
		{
			name:    "bad pattern",
			yaml:    "waves:\n  - groups:\n      - { enemy: grunt, count: 1, pattern: zigzag }\n",
			wantErr: "unknown spawn pattern",
		},
		{
			name:    "bad policy",
			yaml:    "waves:\n  - groups:\n      - { enemy: grunt, count: 1 }\n    completion: explode\n",
			wantErr: "unknown completion policy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRunConfig([]byte(tt.yaml), catalog, "inline")
			if err == nil {
				t.Fatalf("期望错误包含 %q, 实际无错误", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("期望错误包含 %q, 实际 %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadRunConfig_MissingFile(t *testing.T) {
	_, err := LoadRunConfig(filepath.Join(t.TempDir(), "missing.yaml"), createTestCatalog(t))
	if err == nil {
		t.Fatal("期望文件不存在时报错")
	}
}

func TestParseCompletionPolicy_CaseInsensitive(t *testing.T) {
	p, err := ParseCompletionPolicy("WaitForManualAdvance")
	if err != nil || p != CompletionWaitForManualAdvance {
		t.Errorf("期望 waitForManualAdvance, 实际 %v (%v)", p, err)
	}
	p, err = ParseCompletionPolicy("")
	if err != nil || p != CompletionContinue {
		t.Errorf("空字符串应为 continue, 实际 %v (%v)", p, err)
	}
}

func TestValidateWaves(t *testing.T) {
	grunt := &EnemyKindProfile{Name: "grunt", MaxHealth: 10}
	ok := []WaveProfile{{Groups: []WaveGroup{{Enemy: grunt, Count: 1}}}}
	if err := ValidateWaves(ok); err != nil {
		t.Errorf("合法波次不应报错: %v", err)
	}

	unresolved := []WaveProfile{{Groups: []WaveGroup{{EnemyName: "grunt", Count: 1}}}}
	if err := ValidateWaves(unresolved); err == nil {
		t.Error("未解析的 enemy 引用应报错")
	}
}
