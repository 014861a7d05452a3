package server

import (
	"sync/atomic"
)

// RoomMetrics 记录房间运行期的关键指标（用于监控与调试）
type RoomMetrics struct {
	TickCount         int64 // 统计的 Tick 次数
	InputsAccepted    int64 // 被接受的输入数
	RateLimited       int64 // 因同帧限流被拒绝的输入数
	OldSeqIgnored     int64 // 因旧序列被忽略的输入数
	DropsSimulated    int64 // 因模拟丢包被丢弃的输入数
	ChanFullDiscarded int64 // 因通道满被丢弃的输入数
	Buffered          int64 // 进入方向缓冲的输入数
	RejectedFull      int64 // 缓冲已满
	RejectedReversal  int64 // 反向
	RejectedDuplicate int64 // 与上一个缓冲方向重复
	Pauses            int64 // 暂停请求数
	MoveSteps         int64 // 移动步进次数
	TotalTickNs       int64 // Tick 累计耗时（纳秒）
}

func (m *RoomMetrics) IncAccepted()          { atomic.AddInt64(&m.InputsAccepted, 1) }
func (m *RoomMetrics) IncRateLimited()       { atomic.AddInt64(&m.RateLimited, 1) }
func (m *RoomMetrics) IncOldSeqIgnored()     { atomic.AddInt64(&m.OldSeqIgnored, 1) }
func (m *RoomMetrics) IncDropsSimulated()    { atomic.AddInt64(&m.DropsSimulated, 1) }
func (m *RoomMetrics) IncChanFullDiscarded() { atomic.AddInt64(&m.ChanFullDiscarded, 1) }
func (m *RoomMetrics) IncPauses()            { atomic.AddInt64(&m.Pauses, 1) }
func (m *RoomMetrics) IncMoveSteps()         { atomic.AddInt64(&m.MoveSteps, 1) }

// ObserveVerdict 按方向缓冲的处理结果分类计数
func (m *RoomMetrics) ObserveVerdict(v Verdict) {
	switch v {
	case Accepted:
		atomic.AddInt64(&m.Buffered, 1)
	case RejectedFull:
		atomic.AddInt64(&m.RejectedFull, 1)
	case RejectedReversal:
		atomic.AddInt64(&m.RejectedReversal, 1)
	case RejectedDuplicate:
		atomic.AddInt64(&m.RejectedDuplicate, 1)
	}
}

func (m *RoomMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *RoomMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":          tick,
		"inputs_accepted":     atomic.LoadInt64(&m.InputsAccepted),
		"rate_limited":        atomic.LoadInt64(&m.RateLimited),
		"old_seq_ignored":     atomic.LoadInt64(&m.OldSeqIgnored),
		"drops_simulated":     atomic.LoadInt64(&m.DropsSimulated),
		"chan_full_discarded": atomic.LoadInt64(&m.ChanFullDiscarded),
		"buffered":            atomic.LoadInt64(&m.Buffered),
		"rejected_full":       atomic.LoadInt64(&m.RejectedFull),
		"rejected_reversal":   atomic.LoadInt64(&m.RejectedReversal),
		"rejected_duplicate":  atomic.LoadInt64(&m.RejectedDuplicate),
		"pauses":              atomic.LoadInt64(&m.Pauses),
		"move_steps":          atomic.LoadInt64(&m.MoveSteps),
		"avg_tick_ms":         avgMs,
	}
}
