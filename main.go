package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/horde/data"
	"github.com/decker502/horde/pkg/app"
	"github.com/decker502/horde/pkg/embedded"
	"github.com/decker502/horde/pkg/scenes"
)

func main() {
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	enemiesPath := flag.String("enemies", "", "Enemy catalog YAML (default: built-in)")
	wavesPath := flag.String("waves", "", "Wave list YAML (default: built-in)")
	debug := flag.Bool("debug", false, "Enable scheduler debug logging")
	flag.Parse()

	embedded.Init(data.FS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:     *verbose,
		EnemiesPath: *enemiesPath,
		WavesPath:   *wavesPath,
		Debug:       *debug,
	})
	if err != nil {
		// 非 verbose 模式下 log 输出已被关闭
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(scenes.ScreenWidth, scenes.ScreenHeight)
	ebiten.SetWindowTitle("Horde - Wave Console")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}
