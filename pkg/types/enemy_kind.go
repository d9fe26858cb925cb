// Package types 定义共享的基础类型
package types

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// KindTag 敌人种类标签
// 用于区分敌人的外观/行为类别，调度器本身不依赖它
type KindTag int

const (
	KindBasic  KindTag = iota // 普通近战
	KindRanged                // 远程
	KindFast                  // 速攻
	KindTank                  // 重装
	KindBoss                  // 首领
)

// kindNames 配置文件中使用的名称
var kindNames = map[KindTag]string{
	KindBasic:  "basic",
	KindRanged: "ranged",
	KindFast:   "fast",
	KindTank:   "tank",
	KindBoss:   "boss",
}

// String 返回配置文件中使用的小写名称
func (k KindTag) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KindTag(%d)", int(k))
}

// ParseKindTag 将配置字符串解析为 KindTag（大小写不敏感）
// 空字符串视为 basic
func ParseKindTag(s string) (KindTag, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KindBasic, nil
	}
	for tag, name := range kindNames {
		if name == s {
			return tag, nil
		}
	}
	return KindBasic, fmt.Errorf("unknown enemy kind %q", s)
}

// UnmarshalYAML 允许在 YAML 中直接写 kind: tank
func (k *KindTag) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	tag, err := ParseKindTag(s)
	if err != nil {
		return err
	}
	*k = tag
	return nil
}

// MarshalYAML 以名称形式输出
func (k KindTag) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}
