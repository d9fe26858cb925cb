package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// SpeakerPlayer 通过 beep/speaker 播放提示音（终端版使用）
type SpeakerPlayer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	enabled     bool
	initialized bool
}

// NewSpeakerPlayer 创建播放器，需调用 Initialize 后才会出声
func NewSpeakerPlayer(volume float64, enabled bool) *SpeakerPlayer {
	return &SpeakerPlayer{
		mixer:   &beep.Mixer{},
		volume:  volume,
		enabled: enabled,
	}
}

// Initialize 初始化音频设备
func (p *SpeakerPlayer) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play 播放提示音；未初始化或已关闭时忽略
func (p *SpeakerPlayer) Play(c Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || !p.enabled {
		return
	}
	streamer := NewCueStreamer(c, p.volume)
	speaker.Lock()
	p.mixer.Add(streamer)
	speaker.Unlock()
}

// SetEnabled 开启/关闭提示音
func (p *SpeakerPlayer) SetEnabled(enabled bool) {
	p.mu.Lock()
	p.enabled = enabled
	p.mu.Unlock()
}

// Enabled 是否开启
func (p *SpeakerPlayer) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Cleanup 停止所有声音
func (p *SpeakerPlayer) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}
