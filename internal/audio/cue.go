// Package audio 生成波次提示音
//
// 提示音由 beep 流合成，可以直接交给 beep/speaker 播放（终端版），
// 也可以渲染为 16 位 PCM 交给 Ebitengine 的 audio.Player（桌面版）。
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/decker502/horde/pkg/event"
	"github.com/decker502/horde/pkg/types"
)

// SampleRate 提示音采样率（与 Ebitengine 音频上下文一致）
const SampleRate = beep.SampleRate(48000)

// Cue 提示音类型
type Cue int

const (
	CueWaveStart    Cue = iota // 新波次开始
	CueWaveComplete            // 波次清空
	CueRunFinished             // 全部波次结束
	CueError                   // 配置错误
)

func (c Cue) String() string {
	switch c {
	case CueWaveStart:
		return "wave-start"
	case CueWaveComplete:
		return "wave-complete"
	case CueRunFinished:
		return "run-finished"
	case CueError:
		return "error"
	default:
		return "unknown"
	}
}

// note 一个音符：频率为 0 表示休止
type note struct {
	freq     float64
	duration time.Duration
}

var cueNotes = map[Cue][]note{
	CueWaveStart:    {{660, 90 * time.Millisecond}, {0, 30 * time.Millisecond}, {880, 120 * time.Millisecond}},
	CueWaveComplete: {{880, 80 * time.Millisecond}, {660, 80 * time.Millisecond}, {523.25, 140 * time.Millisecond}},
	CueRunFinished:  {{523.25, 120 * time.Millisecond}, {659.25, 120 * time.Millisecond}, {783.99, 120 * time.Millisecond}, {1046.5, 260 * time.Millisecond}},
	CueError:        {{110, 180 * time.Millisecond}},
}

// CueForEvent 将调度器事件映射为提示音
func CueForEvent(e event.Event) (Cue, bool) {
	switch e.Type {
	case event.WaveIndexChanged:
		return CueWaveStart, true
	case event.WavePhaseChanged:
		if data, ok := e.Data.(event.PhaseChanged); ok && data.Phase == types.PhaseWaveComplete {
			return CueWaveComplete, true
		}
	case event.RunFinished:
		return CueRunFinished, true
	case event.ErrorReported:
		return CueError, true
	}
	return 0, false
}

// NewCueStreamer 合成提示音
// volume 范围 0.0 ~ 1.0，0 表示静音
func NewCueStreamer(c Cue, volume float64) beep.Streamer {
	notes := cueNotes[c]
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		samples := SampleRate.N(n.duration)
		if n.freq <= 0 {
			parts = append(parts, beep.Silence(samples))
			continue
		}
		parts = append(parts, beep.Take(samples, newTone(n.freq, samples)))
	}
	return newVolume(beep.Seq(parts...), volume)
}

// CueLength 提示音的采样数
func CueLength(c Cue) int {
	total := 0
	for _, n := range cueNotes[c] {
		total += SampleRate.N(n.duration)
	}
	return total
}

// tone 带淡入淡出的正弦波
type tone struct {
	freq     float64
	phase    float64
	position int
	total    int
}

// 淡入淡出的采样数
const fadeSamples = 240

func newTone(freq float64, total int) *tone {
	return &tone{freq: freq, total: total}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.total {
			return i, i > 0
		}

		gain := 1.0
		if t.position < fadeSamples {
			gain = float64(t.position) / fadeSamples
		} else if rest := t.total - t.position; rest < fadeSamples {
			gain = float64(rest) / fadeSamples
		}

		val := math.Sin(2*math.Pi*t.phase) * gain * 0.5
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(SampleRate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// newVolume math.Log2(0) 为 -Inf，音量为 0 时直接静音
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	if vol > 1 {
		vol = 1
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
