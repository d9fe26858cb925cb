package systems

import "errors"

var (
	// ErrInvalidIndex JumpToWave 的索引越界
	ErrInvalidIndex = errors.New("wave index out of range")

	// ErrNoWaves 波次列表为空（配置错误）
	ErrNoWaves = errors.New("no waves configured")

	// ErrNoSpawnLocations 没有配置任何出生点（配置错误）
	ErrNoSpawnLocations = errors.New("no spawn locations configured")

	// ErrNoSpawner 没有配置敌人生成器（配置错误）
	ErrNoSpawner = errors.New("no enemy spawner configured")

	// ErrNoLocationsAvailable 生成器拒绝了本次生成（没有可用位置）
	ErrNoLocationsAvailable = errors.New("no spawn locations available")
)
