package config

import (
	"fmt"
	"os"
)

// ReadFunc 读取内置配置文件
type ReadFunc func(path string) ([]byte, error)

// LoadRunFiles 加载敌人目录和波次配置
//
// 参数：
//   - enemiesPath, wavesPath: 磁盘上的配置文件，为空时使用内置配置
//   - builtin: 读取内置配置（通常是 embedded.ReadFile）
//   - builtinEnemies, builtinWaves: 内置配置的路径
//
// 返回：
//   - *EnemyCatalog, *RunConfig: 解析并校验后的配置
//   - error: 任一文件读取、解析或校验失败
func LoadRunFiles(enemiesPath, wavesPath string, builtin ReadFunc, builtinEnemies, builtinWaves string) (*EnemyCatalog, *RunConfig, error) {
	enemiesData, enemiesSource, err := readConfigFile(enemiesPath, builtin, builtinEnemies)
	if err != nil {
		return nil, nil, err
	}
	catalog, err := ParseEnemyCatalog(enemiesData, enemiesSource)
	if err != nil {
		return nil, nil, err
	}

	wavesData, wavesSource, err := readConfigFile(wavesPath, builtin, builtinWaves)
	if err != nil {
		return nil, nil, err
	}
	run, err := ParseRunConfig(wavesData, catalog, wavesSource)
	if err != nil {
		return nil, nil, err
	}

	return catalog, run, nil
}

func readConfigFile(path string, builtin ReadFunc, builtinPath string) ([]byte, string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, path, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return data, path, nil
	}

	if builtin == nil {
		return nil, builtinPath, fmt.Errorf("no config file given and no built-in source for %s", builtinPath)
	}
	data, err := builtin(builtinPath)
	if err != nil {
		return nil, builtinPath, fmt.Errorf("failed to read built-in config %s: %w", builtinPath, err)
	}
	return data, "built-in " + builtinPath, nil
}
