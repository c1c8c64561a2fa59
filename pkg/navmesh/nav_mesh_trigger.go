package navmesh

import (
	"sync"

	"github.com/pascaldisse/mxo-decompiled/pkg/alg"
)

// TriggerRegion 触发器空间区域判定
type TriggerRegion interface {
	Contains(pos alg.Vector3) bool
}

// SphereRegion 球形区域
type SphereRegion struct {
	Center alg.Vector3
	Radius float32
}

func (r *SphereRegion) Contains(pos alg.Vector3) bool {
	return pos.DistanceSquared(r.Center) <= r.Radius*r.Radius
}

// PolygonRegion 平面多边形棱柱区域 顶点为XZ平面坐标 高度范围Bottom到Top
type PolygonRegion struct {
	Points []*alg.Vector2
	Bottom float32
	Top    float32
}

func (r *PolygonRegion) Contains(pos alg.Vector3) bool {
	if pos.Y < r.Bottom || pos.Y > r.Top {
		return false
	}
	return alg.Region2DPolygonContainPos(r.Points, &alg.Vector2{X: pos.X, Y: pos.Z})
}

// TriggerNotify 触发器进出事件通知目标 由外部实现
type TriggerNotify interface {
	OnTriggerEnter(triggerId uint32, agentId uint32)
	OnTriggerExit(triggerId uint32, agentId uint32)
}

// NavMeshTrigger 已注册的触发器
type NavMeshTrigger struct {
	id     uint32
	region TriggerRegion
	notify TriggerNotify
}

func (t *NavMeshTrigger) GetId() uint32 {
	return t.id
}

type agentTriggerKey struct {
	agentId   uint32
	triggerId uint32
}

// TriggerManager 触发器管理器 每tick对全部被跟踪对象做进出判定
// 每对(对象,触发器)只保留上一tick是否在内 不保留更早历史
type TriggerManager struct {
	mu            sync.Mutex
	triggerMap    map[uint32]*NavMeshTrigger
	agentPosMap   map[uint32]alg.Vector3
	insideMap     map[agentTriggerKey]bool
	nextTriggerId uint32
}

func NewTriggerManager() *TriggerManager {
	m := new(TriggerManager)
	m.triggerMap = make(map[uint32]*NavMeshTrigger)
	m.agentPosMap = make(map[uint32]alg.Vector3)
	m.insideMap = make(map[agentTriggerKey]bool)
	m.nextTriggerId = 1
	return m
}

// AddTrigger 注册触发器 id单调递增 进程生命周期内不复用
func (m *TriggerManager) AddTrigger(region TriggerRegion, notify TriggerNotify) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	triggerId := m.nextTriggerId
	m.nextTriggerId++
	m.triggerMap[triggerId] = &NavMeshTrigger{
		id:     triggerId,
		region: region,
		notify: notify,
	}
	return triggerId
}

func (m *TriggerManager) RemoveTrigger(triggerId uint32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exist := m.triggerMap[triggerId]
	if !exist {
		return false
	}
	delete(m.triggerMap, triggerId)
	for key := range m.insideMap {
		if key.triggerId == triggerId {
			delete(m.insideMap, key)
		}
	}
	return true
}

func (m *TriggerManager) TriggerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.triggerMap)
}

// UpdateAgentPosition 外部对象系统上报对象位置
func (m *TriggerManager) UpdateAgentPosition(agentId uint32, pos alg.Vector3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.agentPosMap[agentId] = pos
}

func (m *TriggerManager) RemoveAgent(agentId uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.agentPosMap, agentId)
	for key := range m.insideMap {
		if key.agentId == agentId {
			delete(m.insideMap, key)
		}
	}
}

// UpdateTriggers 每tick调用一次 检出自上一tick以来的进出状态变化并通知
func (m *TriggerManager) UpdateTriggers() {
	m.mu.Lock()
	type event struct {
		trigger *NavMeshTrigger
		agentId uint32
		enter   bool
	}
	eventList := make([]event, 0)
	for agentId, pos := range m.agentPosMap {
		for triggerId, trigger := range m.triggerMap {
			key := agentTriggerKey{agentId: agentId, triggerId: triggerId}
			inside := trigger.region.Contains(pos)
			wasInside := m.insideMap[key]
			if inside == wasInside {
				continue
			}
			if inside {
				m.insideMap[key] = true
			} else {
				delete(m.insideMap, key)
			}
			eventList = append(eventList, event{trigger: trigger, agentId: agentId, enter: inside})
		}
	}
	m.mu.Unlock()
	// 通知在锁外派发 通知目标可能回调管理器
	for _, e := range eventList {
		if e.trigger.notify == nil {
			continue
		}
		if e.enter {
			e.trigger.notify.OnTriggerEnter(e.trigger.id, e.agentId)
		} else {
			e.trigger.notify.OnTriggerExit(e.trigger.id, e.agentId)
		}
	}
}
