package modules

import (
	"fmt"
	"strings"
)

// HUDLines 状态面板的文本行
func HUDLines(status WaveStatus) []string {
	wave := "-"
	if status.WaveNumber > 0 {
		wave = fmt.Sprintf("%d/%d  %s", status.WaveNumber, status.TotalWaves, status.WaveName)
		if status.BossWave {
			wave += "  [BOSS]"
		}
	}

	flags := make([]string, 0, 4)
	if status.Paused {
		flags = append(flags, "PAUSED")
	}
	if status.AutoFire {
		flags = append(flags, "auto")
	}
	if status.Debug {
		flags = append(flags, "debug")
	}
	if !status.Cues {
		flags = append(flags, "muted")
	}

	lines := []string{
		fmt.Sprintf("Phase:     %s", status.Phase),
		fmt.Sprintf("Wave:      %s", wave),
		fmt.Sprintf("Remaining: %d (live %d)", status.Remaining, status.Live),
		fmt.Sprintf("Score:     %d (%d defeated)", status.Score, status.Defeated),
		fmt.Sprintf("Speed:     x%.2g  %s", status.TimeScale, strings.Join(flags, " ")),
	}
	if status.RunID != "" {
		lines = append(lines, fmt.Sprintf("Run:       %s", shortRunID(status.RunID)))
	}
	return lines
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
