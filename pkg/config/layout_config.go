package config

// 布局配置常量
// 出生点坐标使用"场地坐标系"：左上角为原点，单位为像素
// 桌面版按 1:1 绘制，终端版按比例缩放到单元格
const (
	// ArenaWidth 场地宽度
	ArenaWidth = 800

	// ArenaHeight 场地高度
	ArenaHeight = 600
)
