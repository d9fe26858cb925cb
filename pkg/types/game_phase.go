package types

// GamePhase 波次调度器的阶段
type GamePhase int

const (
	PhasePreparing     GamePhase = iota // 初始/重置状态
	PhaseSpawning                       // 正在按分组生成敌人
	PhaseAwaitingClear                  // 生成完毕，等待场上敌人清空
	PhaseWaveComplete                   // 本波已完成，执行完成策略
	PhaseFinished                       // 全部波次结束（终态，仅 Start/JumpToWave 可重置）
)

func (p GamePhase) String() string {
	switch p {
	case PhasePreparing:
		return "Preparing"
	case PhaseSpawning:
		return "Spawning"
	case PhaseAwaitingClear:
		return "AwaitingClear"
	case PhaseWaveComplete:
		return "WaveComplete"
	case PhaseFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}
