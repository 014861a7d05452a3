package server

import "time"

// TickInterval 根据 TPS 计算帧间隔
func TickInterval(ticksPerSecond int) time.Duration {
	if ticksPerSecond <= 0 {
		ticksPerSecond = DefaultConfig().TicksPerSecond
	}
	return time.Second / time.Duration(ticksPerSecond)
}

// Tick 推进一帧：处理输入 → 更新世界 → 广播结果
func (r *Room) Tick() {
	start := time.Now()
	r.BeginTick() // 同一 Tick 时间线：重置输入计数等帧内状态
	r.ProcessInputs()
	r.UpdateWorld()
	r.Broadcast()
	r.metrics.AddTick(time.Since(start).Nanoseconds())
}

// StartTicker 启动房间的 Tick 循环（单线程推进世界），Stop 后退出
func (r *Room) StartTicker(interval time.Duration) {
	if r.tickerStarted {
		return
	}
	r.tickerStarted = true
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Tick()
			case <-r.ctx.Done():
				for _, p := range r.Players {
					if p.Conn != nil {
						p.Conn.Close()
					}
				}
				return
			}
		}
	}()
}

// Stop 停止 Tick 循环并关闭所有连接
func (r *Room) Stop() {
	r.cancel()
}
