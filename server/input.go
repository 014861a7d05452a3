package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Controls 某一帧客户端按下的离散动作（由客户端轮询键盘/手柄后上报）
type Controls struct {
	Pause  bool `json:"pause"`
	Resume bool `json:"resume"`
	Up     bool `json:"up"`
	Down   bool `json:"down"`
	Left   bool `json:"left"`
	Right  bool `json:"right"`
}

// Direction 按固定优先级 上 > 下 > 左 > 右 选出本帧唯一的方向请求
func (c Controls) Direction() (Direction, bool) {
	switch {
	case c.Up:
		return DirUp, true
	case c.Down:
		return DirDown, true
	case c.Left:
		return DirLeft, true
	case c.Right:
		return DirRight, true
	}
	return 0, false
}

// Input 客户端输入（意图），由服务端在 Tick 中解释并驱动世界状态
type Input struct {
	PlayerID PlayerID
	Controls Controls
	Seq      int64 // 客户端本地序列号，用于去重与确认；0 表示不参与序列校验
}

// 入站输入的 JSON 结构（WebSocket 文本消息）
// 示例：{"type":"input","seq":7,"up":true}
// 兼容旧格式：{"type":"move","command":"up"}
type InputMessage struct {
	Type    string `json:"type"`
	Command string `json:"command,omitempty"`
	Seq     int64  `json:"seq,omitempty"`
	Controls
}

var errIgnoredMessage = errors.New("ignored message")

// DecodeInput 将一条文本消息解析为 Input
func DecodeInput(pid PlayerID, payload []byte) (Input, error) {
	var im InputMessage
	if err := json.Unmarshal(payload, &im); err != nil {
		return Input{}, fmt.Errorf("decode input: %w", err)
	}
	in := Input{PlayerID: pid, Seq: im.Seq}
	switch strings.ToLower(im.Type) {
	case "input":
		in.Controls = im.Controls
	case "move":
		dir, ok := ParseDirection(im.Command)
		if !ok {
			return Input{}, fmt.Errorf("decode input: unknown command %q: %w", im.Command, errIgnoredMessage)
		}
		switch dir {
		case DirUp:
			in.Controls.Up = true
		case DirDown:
			in.Controls.Down = true
		case DirLeft:
			in.Controls.Left = true
		case DirRight:
			in.Controls.Right = true
		}
	case "pause":
		in.Controls.Pause = true
	case "resume":
		in.Controls.Resume = true
	default:
		return Input{}, fmt.Errorf("decode input: type %q: %w", im.Type, errIgnoredMessage)
	}
	return in, nil
}
