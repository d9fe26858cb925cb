package components

// PositionComponent 世界坐标位置
type PositionComponent struct {
	X, Y float64
}
