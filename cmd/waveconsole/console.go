package main

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/modules"
	"github.com/decker502/horde/pkg/types"
)

const (
	frameInterval = 16 * time.Millisecond // ~60 FPS
	hudWidth      = 44
)

const consoleHelp = "s start  x stop  e end  n next  1-9 jump  d debug  a auto  m cues  p pause  +/- speed  q quit"

var (
	styleDefault = tcell.StyleDefault
	styleBorder  = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	styleSpawn   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleError   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleHelp    = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// console 终端版波次操作台
type console struct {
	screen tcell.Screen
	module *modules.WaveControlModule
	width  int
	height int
}

func newConsole(screen tcell.Screen, module *modules.WaveControlModule) *console {
	c := &console{screen: screen, module: module}
	c.width, c.height = screen.Size()
	return c
}

// run 主循环：事件在独立 goroutine 中读取，定时器驱动 Update 和绘制
func (c *console) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go pollEvents(c.screen, eventChan, quit)

	last := time.Now()
	for {
		select {
		case ev := <-eventChan:
			if !c.handleEvent(ev) {
				return
			}
		case now := <-ticker.C:
			c.module.Update(now.Sub(last).Seconds())
			last = now
			c.draw()
		}
	}
}

// pollEvents 把终端事件转发到 events，直到屏幕关闭或 quit 被关闭
func pollEvents(screen tcell.Screen, events chan<- tcell.Event, quit <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-quit:
			return
		}
	}
}

// handleEvent 处理一个终端事件，返回 false 表示退出
func (c *console) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return c.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		c.width, c.height = c.screen.Size()
		c.screen.Sync()
	}
	return true
}

// handleKey 处理按键，返回 false 表示退出
func (c *console) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
		if r == 'q' || r == 'Q' {
			return false
		}
		c.module.HandleKey(r)
	}
	return true
}

// arenaSize 场地在终端中占用的列数和行数
func (c *console) arenaSize() (int, int) {
	w := c.width - hudWidth - 1
	if w < 10 {
		w = 10
	}
	h := c.height - 1
	if h < 5 {
		h = 5
	}
	return w, h
}

// toCell 将场地坐标映射为终端单元格（边框内）
func (c *console) toCell(x, y float64) (int, int) {
	w, h := c.arenaSize()
	cx := 1 + int(x/config.ArenaWidth*float64(w-2))
	cy := 1 + int(y/config.ArenaHeight*float64(h-2))
	cx = min(max(cx, 1), w-2)
	cy = min(max(cy, 1), h-2)
	return cx, cy
}

func (c *console) draw() {
	c.screen.Clear()
	c.drawArena()
	c.drawHUD()
	c.screen.Show()
}

func (c *console) drawArena() {
	w, h := c.arenaSize()
	for x := 0; x < w; x++ {
		c.screen.SetContent(x, 0, '─', nil, styleBorder)
		c.screen.SetContent(x, h-1, '─', nil, styleBorder)
	}
	for y := 0; y < h; y++ {
		c.screen.SetContent(0, y, '│', nil, styleBorder)
		c.screen.SetContent(w-1, y, '│', nil, styleBorder)
	}

	for _, p := range c.module.SpawnPoints() {
		x, y := c.toCell(p.X, p.Y)
		c.screen.SetContent(x, y, 'O', nil, styleSpawn)
	}

	// 同一单元格有多个敌人时显示数量
	counts := make(map[[2]int]int)
	for _, e := range c.module.EnemyViews() {
		x, y := c.toCell(e.X, e.Y)
		key := [2]int{x, y}
		counts[key]++
		r := enemyRune(e.Kind)
		if counts[key] > 1 {
			r = countRune(counts[key])
		}
		c.screen.SetContent(x, y, r, nil, enemyStyle(e.Kind))
	}
}

func (c *console) drawHUD() {
	x := c.width - hudWidth
	y := 0
	status := c.module.Status()

	for _, line := range modules.HUDLines(status) {
		c.drawText(x, y, line, styleDefault)
		y++
	}

	// 进度条
	barW := hudWidth - 2
	filled := int(status.Progress * float64(barW))
	for i := 0; i < barW; i++ {
		r := '░'
		if i < filled {
			r = '█'
		}
		c.screen.SetContent(x+i, y, r, nil, styleBorder)
	}
	y += 2

	for _, line := range status.Log {
		style := styleDefault
		if len(line) > 0 && line[0] == '!' {
			style = styleError
		}
		c.drawText(x, y, line, style)
		y++
	}

	c.drawText(0, c.height-1, consoleHelp, styleHelp)
}

func (c *console) drawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		if x >= c.width {
			return
		}
		c.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func enemyRune(kind types.KindTag) rune {
	switch kind {
	case types.KindRanged:
		return 'r'
	case types.KindFast:
		return 'f'
	case types.KindTank:
		return 'T'
	case types.KindBoss:
		return 'B'
	default:
		return 'g'
	}
}

func countRune(n int) rune {
	if n > 9 {
		return '+'
	}
	return rune('0' + n)
}

func enemyStyle(kind types.KindTag) tcell.Style {
	switch kind {
	case types.KindRanged:
		return tcell.StyleDefault.Foreground(tcell.ColorBlue)
	case types.KindFast:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	case types.KindTank:
		return tcell.StyleDefault.Foreground(tcell.ColorSilver)
	case types.KindBoss:
		return tcell.StyleDefault.Foreground(tcell.ColorPurple).Bold(true)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	}
}
