package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/decker502/horde/pkg/types"
)

func TestLoadEnemyCatalog_Defaults(t *testing.T) {
	path := writeTempFile(t, "enemies.yaml", `
enemies:
  - name: grunt
  - name: sniper
    kind: ranged
    damage: 0
    attackRange: 12
`)

	catalog, err := LoadEnemyCatalog(path)
	if err != nil {
		t.Fatalf("LoadEnemyCatalog failed: %v", err)
	}
	if catalog.Len() != 2 {
		t.Fatalf("期望 2 个档案, 实际 %d", catalog.Len())
	}

	grunt, ok := catalog.Lookup("grunt")
	if !ok {
		t.Fatal("grunt 未找到")
	}
	if grunt.MaxHealth != DefaultEnemyMaxHealth || grunt.Damage != DefaultEnemyDamage || grunt.ScorePoints != DefaultEnemyScorePoints {
		t.Errorf("默认值不正确: %+v", grunt)
	}
	if grunt.Kind != types.KindBasic {
		t.Errorf("默认种类应为 basic, 实际 %v", grunt.Kind)
	}

	sniper, _ := catalog.Lookup("sniper")
	if sniper.Damage != 0 {
		t.Errorf("显式 damage=0 不应被覆盖, 实际 %d", sniper.Damage)
	}
	if sniper.Kind != types.KindRanged || sniper.AttackRange != 12 {
		t.Errorf("sniper 字段解析错误: %+v", sniper)
	}
	if sniper.MoveSpeed != DefaultEnemyMoveSpeed {
		t.Errorf("期望默认 moveSpeed, 实际 %v", sniper.MoveSpeed)
	}
}

func TestParseEnemyCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"empty", "enemies: []\n", "at least one enemy"},
		{"no name", "enemies:\n  - maxHealth: 5\n", "name is required"},
		{"duplicate", "enemies:\n  - name: a\n  - name: a\n", "duplicate name"},
		{"zero health", "enemies:\n  - name: a\n    maxHealth: 0\n", "maxHealth must be at least 1"},
		{"negative damage", "enemies:\n  - name: a\n    damage: -1\n", "damage cannot be negative"},
		{"negative score", "enemies:\n  - name: a\n    scorePoints: -3\n", "scorePoints cannot be negative"},
		{"bad kind", "enemies:\n  - name: a\n    kind: dragon\n", "unknown enemy kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEnemyCatalog([]byte(tt.yaml), "inline")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("期望错误包含 %q, 实际 %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadEnemyCatalog_MissingFile(t *testing.T) {
	if _, err := LoadEnemyCatalog(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("期望文件不存在时报错")
	}
}

func TestNewEnemyCatalog(t *testing.T) {
	catalog, err := NewEnemyCatalog(&EnemyKindProfile{Name: "a", MaxHealth: 1})
	if err != nil {
		t.Fatalf("NewEnemyCatalog failed: %v", err)
	}
	if _, ok := catalog.Lookup("a"); !ok {
		t.Error("期望能查到 a")
	}

	var nilCatalog *EnemyCatalog
	if _, ok := nilCatalog.Lookup("a"); ok {
		t.Error("nil 目录不应查到任何档案")
	}
}
