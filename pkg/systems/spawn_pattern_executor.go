package systems

import (
	"context"

	"github.com/decker502/horde/pkg/config"
)

// BurstSize Burst 模式每批生成的数量
const BurstSize = 3

// SpawnRequest 一次生成请求
type SpawnRequest struct {
	Profile    *config.EnemyKindProfile
	GroupIndex int // 分组在波次中的索引
	Ordinal    int // 分组内的序号（从 0 开始）
}

// SpawnBatch 同一时刻生成的一批敌人
type SpawnBatch struct {
	Offset float64 // 相对分组开始的时间（秒）
	Count  int
}

// SpawnPatternExecutor 按出怪模式逐帧产出一个分组的生成请求
//
// 执行器不会阻塞：Update 消耗传入的时间，在到期的时刻调用 emit，
// 返回本帧未用完的时间，便于调用方把剩余时间交给下一阶段。
// 每批生成前检查 ctx，取消后立即停止且不再产出请求。
type SpawnPatternExecutor struct {
	ctx        context.Context
	group      config.WaveGroup
	groupIndex int
	interval   float64

	emitted  int
	wait     float64 // 距下一批的剩余等待（秒）
	done     bool
	canceled bool
}

// NewSpawnPatternExecutor 创建分组执行器
//
// 参数：
//   - ctx: 生成阶段的取消令牌
//   - group: 要执行的分组
//   - groupIndex: 分组在波次中的索引（写入 SpawnRequest）
//   - interval: 波次的 spawnInterval（秒），负数按 0 处理
func NewSpawnPatternExecutor(ctx context.Context, group config.WaveGroup, groupIndex int, interval float64) *SpawnPatternExecutor {
	if interval < 0 {
		interval = 0
	}
	return &SpawnPatternExecutor{
		ctx:        ctx,
		group:      group,
		groupIndex: groupIndex,
		interval:   interval,
		done:       group.Count <= 0,
	}
}

// Update 推进 dt 秒，返回未消耗的剩余时间
// 执行器仍在等待时返回 0
func (e *SpawnPatternExecutor) Update(dt float64, emit func(SpawnRequest)) float64 {
	budget := dt
	if budget < 0 {
		budget = 0
	}

	for !e.done {
		if e.wait > 0 {
			if budget < e.wait {
				e.wait -= budget
				return 0
			}
			budget -= e.wait
			e.wait = 0
		}

		if e.ctx != nil && e.ctx.Err() != nil {
			e.done = true
			e.canceled = true
			return 0
		}

		n := batchSize(e.group.Pattern, e.group.Count-e.emitted)
		for i := 0; i < n; i++ {
			emit(SpawnRequest{
				Profile:    e.group.Enemy,
				GroupIndex: e.groupIndex,
				Ordinal:    e.emitted,
			})
			e.emitted++
		}

		if e.emitted >= e.group.Count {
			e.done = true
			break
		}
		e.wait = batchDelay(e.group.Pattern, e.interval)
	}

	return budget
}

// Done 分组是否已经执行完毕（包括被取消）
func (e *SpawnPatternExecutor) Done() bool {
	return e.done
}

// Canceled 分组是否因取消而提前结束
func (e *SpawnPatternExecutor) Canceled() bool {
	return e.canceled
}

// Emitted 已产出的生成请求数量
func (e *SpawnPatternExecutor) Emitted() int {
	return e.emitted
}

// PlanSpawnTimeline 计算分组的生成时间线（不产生任何副作用）
func PlanSpawnTimeline(group config.WaveGroup, interval float64) []SpawnBatch {
	if interval < 0 {
		interval = 0
	}

	batches := make([]SpawnBatch, 0)
	offset := 0.0
	for emitted := 0; emitted < group.Count; {
		n := batchSize(group.Pattern, group.Count-emitted)
		batches = append(batches, SpawnBatch{Offset: offset, Count: n})
		emitted += n
		offset += batchDelay(group.Pattern, interval)
	}
	return batches
}

// batchSize 返回下一批的数量，rest 为剩余未生成数量
func batchSize(pattern config.SpawnPattern, rest int) int {
	switch pattern {
	case config.PatternSimultaneous:
		return rest
	case config.PatternBurst:
		return min(BurstSize, rest)
	default:
		return 1
	}
}

func batchDelay(pattern config.SpawnPattern, interval float64) float64 {
	switch pattern {
	case config.PatternSimultaneous:
		return 0
	case config.PatternBurst:
		return interval * 2
	default:
		return interval
	}
}
