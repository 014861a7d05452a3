package server

import (
	"sort"
	"sync"
	"time"
)

// RoomManager 管理多个房间的生命周期
type RoomManager struct {
	mu       sync.RWMutex
	rooms    map[string]*Room
	roomCfg  RoomConfig
	interval time.Duration
	closed   bool
}

var (
	defaultManager *RoomManager
	once           sync.Once
)

// GetRoomManager 单例房间管理器（默认配置，可通过 Configure 调整）
func GetRoomManager() *RoomManager {
	once.Do(func() {
		defaultManager = NewRoomManager(DefaultConfig())
	})
	return defaultManager
}

// NewRoomManager 创建独立的房间管理器
func NewRoomManager(cfg Config) *RoomManager {
	return &RoomManager{
		rooms:    make(map[string]*Room),
		roomCfg:  cfg.Room,
		interval: TickInterval(cfg.TicksPerSecond),
	}
}

// Configure 应用新配置：房间规则对已有房间立即生效，TPS 只影响新房间
func (m *RoomManager) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	m.roomCfg = cfg.Room
	m.interval = TickInterval(cfg.TicksPerSecond)
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.Unlock()

	for _, r := range rooms {
		if err := r.UpdateConfig(cfg.Room); err != nil {
			return err
		}
	}
	return nil
}

// GetOrCreateRoom 获取或创建房间，并确保开始 Tick
func (m *RoomManager) GetOrCreateRoom(id string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		r = NewRoom(id, m.roomCfg)
		m.rooms[id] = r
		if m.closed {
			r.Stop()
		} else {
			r.StartTicker(m.interval)
			Log.Infof("room created: id=%s interval=%s", id, m.interval)
		}
	}
	return r
}

// RoomIDs 当前房间列表（排序）
func (m *RoomManager) RoomIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close 停止所有房间
func (m *RoomManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for _, r := range m.rooms {
		r.Stop()
	}
}
