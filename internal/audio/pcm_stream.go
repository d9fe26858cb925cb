package audio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/gopxl/beep"
)

// PCMStream 预先渲染的 16 位有符号小端立体声 PCM 数据
// 实现 io.ReadSeeker，可直接交给 Ebitengine 的 audio.Player
type PCMStream struct {
	data   []byte
	offset int64
}

// RenderPCM 将有限长度的 beep 流完整渲染为 PCM 数据
func RenderPCM(s beep.Streamer) *PCMStream {
	buf := make([][2]float64, 512)
	data := make([]byte, 0)
	frame := make([]byte, 4)

	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			binary.LittleEndian.PutUint16(frame[0:], uint16(toInt16(buf[i][0])))
			binary.LittleEndian.PutUint16(frame[2:], uint16(toInt16(buf[i][1])))
			data = append(data, frame...)
		}
		if !ok || n == 0 {
			break
		}
	}

	return &PCMStream{data: data}
}

func toInt16(v float64) int16 {
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	return int16(v * 32767)
}

// Read implements io.Reader.
func (p *PCMStream) Read(b []byte) (n int, err error) {
	if p.offset >= int64(len(p.data)) {
		return 0, io.EOF
	}

	n = copy(b, p.data[p.offset:])
	p.offset += int64(n)
	return n, nil
}

// Seek implements io.Seeker.
func (p *PCMStream) Seek(offset int64, whence int) (int64, error) {
	var newOffset int64

	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = p.offset + offset
	case io.SeekEnd:
		newOffset = int64(len(p.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}

	if newOffset < 0 {
		return 0, fmt.Errorf("negative position: %d", newOffset)
	}

	p.offset = newOffset
	return newOffset, nil
}

// Length returns the total length of the PCM data in bytes.
func (p *PCMStream) Length() int64 {
	return int64(len(p.data))
}

// Bytes 返回完整的 PCM 数据
func (p *PCMStream) Bytes() []byte {
	return p.data
}
