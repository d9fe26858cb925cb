// waveconsole 终端版波次操作台
//
// 用法:
//
//	go run ./cmd/waveconsole [-enemies enemies.yaml] [-waves waves.yaml] [-log console.log]
//
// 不指定配置文件时使用编译进程序的内置配置，可在任意目录运行。
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/horde/data"
	"github.com/decker502/horde/internal/audio"
	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/embedded"
	"github.com/decker502/horde/pkg/game"
	"github.com/decker502/horde/pkg/modules"
)

const appName = "horde"

func main() {
	enemiesPath := flag.String("enemies", "", "Enemy catalog YAML (default: built-in)")
	wavesPath := flag.String("waves", "", "Wave list YAML (default: built-in)")
	logPath := flag.String("log", "", "Write log output to this file (default: discard)")
	debug := flag.Bool("debug", false, "Enable scheduler debug logging")
	noSound := flag.Bool("nosound", false, "Disable audio cues")
	flag.Parse()

	// 终端界面占用 stdout，日志只能写文件
	logFile, err := setupLog(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	embedded.Init(data.FS)
	run, err := loadRun(*enemiesPath, *wavesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	settings := game.OpenSettingsManager(appName)
	if *debug {
		settings.SetDebug(true)
	}

	module := modules.NewWaveControlModule(run, settings, time.Now().UnixNano())

	prefs := settings.GetSettings()
	player := audio.NewSpeakerPlayer(prefs.CueVolume, !*noSound)
	if !*noSound {
		if err := player.Initialize(); err != nil {
			// 没有声音也可以运行
			log.Printf("Audio initialization failed: %v", err)
		}
	}
	defer player.Cleanup()
	module.SetCueHandler(player.Play)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}

	newConsole(screen, module).run()
	screen.Fini()

	if err := settings.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save settings: %v\n", err)
	}
}

// loadRun 加载配置，路径为空时使用内置配置
func loadRun(enemiesPath, wavesPath string) (*config.RunConfig, error) {
	_, run, err := config.LoadRunFiles(enemiesPath, wavesPath, embedded.ReadFile, embedded.EnemiesPath, embedded.WavesPath)
	return run, err
}

func setupLog(path string) (*os.File, error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	return f, nil
}
