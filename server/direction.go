package server

import "strings"

// Direction 四个基本方向之一；“无方向”通过 (Direction, bool) 表达，不占用枚举值
type Direction int

const (
	DirUp Direction = iota + 1
	DirDown
	DirLeft
	DirRight
)

// Vec 网格上的整数向量
type Vec struct {
	X int `json:"x"`
	Y int `json:"y"`
}

var dirVectors = [...]Vec{
	DirUp:    {0, -1},
	DirDown:  {0, 1},
	DirLeft:  {-1, 0},
	DirRight: {1, 0},
}

var dirOpposite = [...]Direction{
	DirUp:    DirDown,
	DirDown:  DirUp,
	DirLeft:  DirRight,
	DirRight: DirLeft,
}

var dirNames = [...]string{
	DirUp:    "up",
	DirDown:  "down",
	DirLeft:  "left",
	DirRight: "right",
}

// Valid 是否为四个方向之一
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

// Vector 返回单位向量（y 轴向下）
func (d Direction) Vector() Vec {
	if !d.Valid() {
		return Vec{}
	}
	return dirVectors[d]
}

// Opposite 返回相反方向
func (d Direction) Opposite() Direction {
	if !d.Valid() {
		return d
	}
	return dirOpposite[d]
}

// Dot 两个方向单位向量的点积，取值 -1、0、1
func (d Direction) Dot(o Direction) int {
	a, b := d.Vector(), o.Vector()
	return a.X*b.X + a.Y*b.Y
}

// IsReversalOf 是否与 o 完全相反
func (d Direction) IsReversalOf(o Direction) bool {
	return d.Dot(o) < 0
}

func (d Direction) String() string {
	if !d.Valid() {
		return "none"
	}
	return dirNames[d]
}

// ParseDirection 解析客户端命令字符串（大小写不敏感）
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return DirUp, true
	case "down":
		return DirDown, true
	case "left":
		return DirLeft, true
	case "right":
		return DirRight, true
	}
	return 0, false
}
