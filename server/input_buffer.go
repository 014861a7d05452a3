package server

// DefaultBufferCapacity 每个玩家最多缓存的待执行转向数
const DefaultBufferCapacity = 4

// Verdict 一次入队请求的处理结果。拒绝是正常结果，不是错误
type Verdict int

const (
	Accepted Verdict = iota
	RejectedFull
	RejectedReversal
	RejectedDuplicate
	RejectedInvalid
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case RejectedFull:
		return "full"
	case RejectedReversal:
		return "reversal"
	case RejectedDuplicate:
		return "duplicate"
	case RejectedInvalid:
		return "invalid"
	}
	return "unknown"
}

// DirectionBuffer 定长环形队列，缓存已校验的转向输入，供移动步进按 FIFO 消费。
// 非并发安全：只在房间 Tick 协程内使用
type DirectionBuffer struct {
	items []Direction
	head  int // 最旧元素位置
	size  int
}

// NewDirectionBuffer 创建指定容量的缓冲；容量非正时使用默认值
func NewDirectionBuffer(capacity int) *DirectionBuffer {
	if capacity < 1 {
		capacity = DefaultBufferCapacity
	}
	return &DirectionBuffer{items: make([]Direction, capacity)}
}

// Admit 校验并尝试入队。
// 参照方向：缓冲非空时取最后一个元素，否则取角色当前朝向。
// 只与最后一个元素比较，不回溯更早的元素
func (b *DirectionBuffer) Admit(requested, current Direction) Verdict {
	if !requested.Valid() {
		return RejectedInvalid
	}
	if b.size >= len(b.items) {
		return RejectedFull
	}
	ref := current
	last, ok := b.Last()
	if ok {
		ref = last
	}
	if requested.IsReversalOf(ref) {
		return RejectedReversal
	}
	// 去重只在缓冲已有元素时生效
	if ok && requested == last {
		return RejectedDuplicate
	}
	b.items[(b.head+b.size)%len(b.items)] = requested
	b.size++
	return Accepted
}

// TryEnqueue 返回方向是否被接受
func (b *DirectionBuffer) TryEnqueue(requested, current Direction) bool {
	return b.Admit(requested, current) == Accepted
}

// Dequeue 取出最旧的方向
func (b *DirectionBuffer) Dequeue() (Direction, bool) {
	if b.size == 0 {
		return 0, false
	}
	d := b.items[b.head]
	b.head = (b.head + 1) % len(b.items)
	b.size--
	return d, true
}

// Peek 查看最旧的方向，不移除
func (b *DirectionBuffer) Peek() (Direction, bool) {
	if b.size == 0 {
		return 0, false
	}
	return b.items[b.head], true
}

// Last 查看最新入队的方向
func (b *DirectionBuffer) Last() (Direction, bool) {
	if b.size == 0 {
		return 0, false
	}
	return b.items[(b.head+b.size-1)%len(b.items)], true
}

func (b *DirectionBuffer) Len() int { return b.size }
func (b *DirectionBuffer) Cap() int { return len(b.items) }

// Clear 清空缓冲（例如复活或重置时）
func (b *DirectionBuffer) Clear() {
	b.head = 0
	b.size = 0
}

// Entries 按从旧到新的顺序返回副本
func (b *DirectionBuffer) Entries() []Direction {
	out := make([]Direction, b.size)
	for i := range out {
		out[i] = b.items[(b.head+i)%len(b.items)]
	}
	return out
}
