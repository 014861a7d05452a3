package server

import (
	"encoding/json"
	"net/http"
)

func roomParam(r *http.Request) string {
	roomID := r.URL.Query().Get("room")
	if roomID == "" {
		roomID = "room-1"
	}
	return roomID
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// roomConfigPatch 部分更新载荷，缺省字段保持不变
type roomConfigPatch struct {
	Width              *int     `json:"width,omitempty"`
	Height             *int     `json:"height,omitempty"`
	SlimeLength        *int     `json:"slimeLength,omitempty"`
	MoveEveryTicks     *int     `json:"moveEveryTicks,omitempty"`
	BufferCapacity     *int     `json:"bufferCapacity,omitempty"`
	MaxInputsPerTick   *int     `json:"maxInputsPerTick,omitempty"`
	SimulateDelayMinMs *int     `json:"simulateDelayMinMs,omitempty"`
	SimulateDelayMaxMs *int     `json:"simulateDelayMaxMs,omitempty"`
	SimulateDropProb   *float64 `json:"simulateDropProb,omitempty"`
}

func (p roomConfigPatch) apply(c RoomConfig) RoomConfig {
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setInt(&c.Width, p.Width)
	setInt(&c.Height, p.Height)
	setInt(&c.SlimeLength, p.SlimeLength)
	setInt(&c.MoveEveryTicks, p.MoveEveryTicks)
	setInt(&c.BufferCapacity, p.BufferCapacity)
	setInt(&c.MaxInputsPerTick, p.MaxInputsPerTick)
	setInt(&c.SimulateDelayMinMs, p.SimulateDelayMinMs)
	setInt(&c.SimulateDelayMaxMs, p.SimulateDelayMaxMs)
	if p.SimulateDropProb != nil {
		c.SimulateDropProb = *p.SimulateDropProb
	}
	return c
}

// HandleAdminConfig 提供房间配置的读取与更新（热更新基本规则）
// GET /admin/config?room=room-1  返回当前配置
// POST /admin/config?room=room-1 以 JSON 载荷更新部分字段
func (m *RoomManager) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	roomID := roomParam(r)
	room := m.GetOrCreateRoom(roomID)

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, room.Config())
	case http.MethodPost:
		var body roomConfigPatch
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		cfg := body.apply(room.Config())
		if err := room.UpdateConfig(cfg); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "config": cfg})
		Log.Infof("config updated: room=%s size=%dx%d moveEvery=%d buffer=%d maxInputsPerTick=%d delay=[%d,%d] drop=%.2f",
			roomID, cfg.Width, cfg.Height, cfg.MoveEveryTicks, cfg.BufferCapacity, cfg.MaxInputsPerTick,
			cfg.SimulateDelayMinMs, cfg.SimulateDelayMaxMs, cfg.SimulateDropProb)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleMetrics 输出指定房间的运行指标
// GET /metrics?room=room-1
func (m *RoomManager) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	roomID := roomParam(r)
	room := m.GetOrCreateRoom(roomID)
	writeJSON(w, http.StatusOK, map[string]any{
		"room":    roomID,
		"metrics": room.Metrics().Snapshot(),
	})
}

// NewMux 注册全部 HTTP 路由；webDir 非空时将 / 映射到静态资源
func NewMux(m *RoomManager, webDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", m.HandleWS)
	mux.HandleFunc("/admin/config", m.HandleAdminConfig)
	mux.HandleFunc("/metrics", m.HandleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	if webDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(webDir)))
	}
	return mux
}
