package server

// PlayerID 表示玩家唯一标识
type PlayerID string

// Slime 玩家控制的史莱姆：头部在前的格子序列 + 当前朝向
type Slime struct {
	Segments []Vec // Segments[0] 为头部
	Dir      Direction
}

// NewSlime 在 head 处生成长度为 length 的史莱姆，身体沿朝向反方向排开
func NewSlime(head Vec, dir Direction, length, width, height int) Slime {
	if length < 1 {
		length = 1
	}
	back := dir.Opposite().Vector()
	segs := make([]Vec, length)
	for i := range segs {
		segs[i] = wrap(Vec{X: head.X + back.X*i, Y: head.Y + back.Y*i}, width, height)
	}
	return Slime{Segments: segs, Dir: dir}
}

// Head 头部位置
func (s *Slime) Head() Vec {
	return s.Segments[0]
}

// Step 沿当前朝向前进一格，越界时从另一侧出现
func (s *Slime) Step(width, height int) {
	v := s.Dir.Vector()
	next := wrap(Vec{X: s.Segments[0].X + v.X, Y: s.Segments[0].Y + v.Y}, width, height)
	copy(s.Segments[1:], s.Segments[:len(s.Segments)-1])
	s.Segments[0] = next
}

func wrap(p Vec, width, height int) Vec {
	p.X = ((p.X % width) + width) % width
	p.Y = ((p.Y % height) + height) % height
	return p
}

// PlayerState 为广播给客户端的轻量状态
type PlayerState struct {
	ID       string   `json:"id"`
	X        int      `json:"x"`
	Y        int      `json:"y"`
	Dir      string   `json:"dir"`
	Paused   bool     `json:"paused"`
	Buffered []string `json:"buffered"`
	Segments []Vec    `json:"segments"`
}

// Player 房间内的玩家实体（服务端权威状态）
type Player struct {
	ID     PlayerID
	Slime  Slime
	Buffer *DirectionBuffer // 待执行的转向，由移动步进消费
	Paused bool

	lastSeq   int64 // 已处理的最大序列号
	dirInputs int   // 本 Tick 已处理的方向请求数

	Conn *ClientConn // 网络连接的发送端（写协程）
}

func (p *Player) State() PlayerState {
	head := p.Slime.Head()
	st := PlayerState{
		ID:       string(p.ID),
		X:        head.X,
		Y:        head.Y,
		Dir:      p.Slime.Dir.String(),
		Paused:   p.Paused,
		Buffered: make([]string, 0, p.Buffer.Len()),
		Segments: append([]Vec(nil), p.Slime.Segments...),
	}
	for _, d := range p.Buffer.Entries() {
		st.Buffered = append(st.Buffered, d.String())
	}
	return st
}
