package server

import (
	"context"
	"encoding/json"
	"math/rand"
	"sort"
	"sync"
	"time"
)

// 加入/离开请求；离开时 conn 非空表示仅当玩家仍使用该连接时才移除（重连场景）
type playerRequest struct {
	id   PlayerID
	conn *ClientConn
}

// Room 房间世界：权威状态维护在内存，单线程 Tick 推进
type Room struct {
	ID string

	Players   map[PlayerID]*Player
	inputChan chan Input
	joinChan  chan playerRequest
	leaveChan chan playerRequest

	// 房间规则可能被 admin 接口或配置热更新并发修改
	mu  sync.RWMutex
	cfg RoomConfig

	tickSeq   int64
	joinCount int
	metrics   *RoomMetrics

	ctx           context.Context
	cancel        context.CancelFunc
	tickerStarted bool
}

// NewRoom 创建房间，初始化数据结构
func NewRoom(id string, cfg RoomConfig) *Room {
	ctx, cancel := context.WithCancel(context.Background())
	return &Room{
		ID:        id,
		Players:   make(map[PlayerID]*Player),
		inputChan: make(chan Input, 256), // 足够缓冲，避免网络读阻塞影响 Tick
		joinChan:  make(chan playerRequest, 64),
		leaveChan: make(chan playerRequest, 64),
		cfg:       cfg,
		metrics:   &RoomMetrics{},
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Config 当前房间规则的副本
func (r *Room) Config() RoomConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

// UpdateConfig 热更新房间规则；缓冲容量只影响之后加入的玩家
func (r *Room) UpdateConfig(cfg RoomConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	r.cfg = cfg
	r.mu.Unlock()
	return nil
}

func (r *Room) Metrics() *RoomMetrics { return r.metrics }

// JoinPlayer 请求在 Tick 线程中加入玩家
func (r *Room) JoinPlayer(id PlayerID, conn *ClientConn) {
	select {
	case r.joinChan <- playerRequest{id: id, conn: conn}:
	case <-r.ctx.Done():
	}
}

// addPlayer 只在 Tick 线程调用；同名玩家重连时替换旧连接
func (r *Room) addPlayer(id PlayerID, conn *ClientConn) *Player {
	r.removePlayer(id)
	cfg := r.Config()
	head := Vec{X: cfg.Width / 2, Y: (cfg.Height/2 + 2*r.joinCount) % cfg.Height}
	r.joinCount++
	p := &Player{
		ID:     id,
		Slime:  NewSlime(head, DirRight, cfg.SlimeLength, cfg.Width, cfg.Height),
		Buffer: NewDirectionBuffer(cfg.BufferCapacity),
		Conn:   conn,
	}
	r.Players[id] = p
	Log.Infof("player joined: room=%s player=%s head=(%d,%d)", r.ID, id, head.X, head.Y)
	return p
}

// removePlayer 将玩家移出房间
func (r *Room) removePlayer(id PlayerID) {
	if p, ok := r.Players[id]; ok {
		if p.Conn != nil {
			p.Conn.Close()
		}
		delete(r.Players, id)
		Log.Infof("player left: room=%s player=%s", r.ID, id)
	}
}

// RequestLeave 请求在 Tick 线程中移除玩家，避免并发改动房间状态
func (r *Room) RequestLeave(pid PlayerID) {
	r.requestLeave(playerRequest{id: pid})
}

func (r *Room) requestLeave(req playerRequest) {
	select {
	case r.leaveChan <- req:
	case <-r.ctx.Done():
	}
}

// OnInput 入站输入（不立即改变状态），按网络模拟配置丢弃或延迟后进入输入通道
func (r *Room) OnInput(in Input) {
	cfg := r.Config()
	if cfg.SimulateDropProb > 0 && rand.Float64() < cfg.SimulateDropProb {
		r.metrics.IncDropsSimulated()
		return
	}
	if cfg.SimulateDelayMaxMs > 0 {
		delay := cfg.SimulateDelayMinMs
		if span := cfg.SimulateDelayMaxMs - cfg.SimulateDelayMinMs; span > 0 {
			delay += rand.Intn(span + 1)
		}
		time.AfterFunc(time.Duration(delay)*time.Millisecond, func() { r.pushInput(in) })
		return
	}
	r.pushInput(in)
}

func (r *Room) pushInput(in Input) {
	// 不阻塞：输入拥塞时丢弃，保证 Tick 准时
	select {
	case r.inputChan <- in:
	default:
		r.metrics.IncChanFullDiscarded()
	}
}

// BeginTick 开始新的一帧：推进帧序号并重置帧内计数
func (r *Room) BeginTick() {
	r.tickSeq++
	for _, p := range r.Players {
		p.dirInputs = 0
	}
}

// ProcessInputs 处理当前帧的所有加入/离开/输入请求（非阻塞 drain）。
// 先处理加入，保证同一帧内新玩家的输入不会被丢弃
func (r *Room) ProcessInputs() {
	r.drainJoins()
	maxPerTick := r.Config().MaxInputsPerTick
	for {
		select {
		case l := <-r.leaveChan:
			if p, ok := r.Players[l.id]; ok && (l.conn == nil || p.Conn == l.conn) {
				r.removePlayer(l.id)
			}
		case in := <-r.inputChan:
			p, ok := r.Players[in.PlayerID]
			if !ok {
				continue
			}
			if in.Seq > 0 {
				if in.Seq <= p.lastSeq {
					r.metrics.IncOldSeqIgnored()
					continue
				}
				p.lastSeq = in.Seq
			}
			r.metrics.IncAccepted()
			r.checkInput(p, in.Controls, maxPerTick)
		default:
			return
		}
	}
}

func (r *Room) drainJoins() {
	for {
		select {
		case j := <-r.joinChan:
			r.addPlayer(j.id, j.conn)
		default:
			return
		}
	}
}

// checkInput 暂停优先；否则把本帧的方向请求交给方向缓冲校验
func (r *Room) checkInput(p *Player, c Controls, maxPerTick int) {
	if c.Pause {
		if !p.Paused {
			p.Paused = true
			r.metrics.IncPauses()
			Log.Debugf("player paused: room=%s player=%s", r.ID, p.ID)
		}
		return
	}
	if c.Resume && p.Paused {
		p.Paused = false
		Log.Debugf("player resumed: room=%s player=%s", r.ID, p.ID)
	}
	if p.Paused {
		return
	}
	dir, ok := c.Direction()
	if !ok {
		return
	}
	if p.dirInputs >= maxPerTick {
		r.metrics.IncRateLimited()
		return
	}
	p.dirInputs++
	r.metrics.ObserveVerdict(p.Buffer.Admit(dir, p.Slime.Dir))
}

// UpdateWorld 每 MoveEveryTicks 帧执行一次移动步进：
// 每个未暂停的史莱姆最多消费一个缓冲方向，然后前进一格
func (r *Room) UpdateWorld() {
	cfg := r.Config()
	if r.tickSeq%int64(cfg.MoveEveryTicks) != 0 {
		return
	}
	for _, p := range r.Players {
		if p.Paused {
			continue
		}
		if d, ok := p.Buffer.Dequeue(); ok {
			p.Slime.Dir = d
		}
		p.Slime.Step(cfg.Width, cfg.Height)
		r.metrics.IncMoveSteps()
	}
}

// Snapshot 当前世界状态，按玩家 ID 排序
func (r *Room) Snapshot() []PlayerState {
	snapshot := make([]PlayerState, 0, len(r.Players))
	for _, p := range r.Players {
		snapshot = append(snapshot, p.State())
	}
	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].ID < snapshot[j].ID })
	return snapshot
}

// StateMessage 广播给客户端的状态帧
type StateMessage struct {
	Type    string        `json:"type"`
	Tick    int64         `json:"tick"`
	Players []PlayerState `json:"players"`
}

// Broadcast 将当前世界状态广播给所有玩家（文本 JSON）
func (r *Room) Broadcast() {
	if len(r.Players) == 0 {
		return
	}
	b, err := json.Marshal(StateMessage{Type: "state", Tick: r.tickSeq, Players: r.Snapshot()})
	if err != nil {
		Log.Errorf("marshal state: room=%s err=%v", r.ID, err)
		return
	}
	for _, p := range r.Players {
		if p.Conn != nil {
			p.Conn.Enqueue(b)
		}
	}
}
