package navmesh

import (
	"github.com/pascaldisse/mxo-decompiled/pkg/alg"
)

// PathNode 寻路搜索节点 仅在单次查询期间有效
type PathNode struct {
	Pos       alg.Vector3 // 节点位置
	PolyId    uint32      // 所在多边形id
	Cost      float32     // 从起点累计的路径代价
	Heuristic float32     // 到终点的启发式估值
	TotalCost float32     // Cost+Heuristic
	Parent    *PathNode   // 前驱节点 为nil即空闲
	poolIdx   int32
}

// PathNodePool 固定容量的搜索节点池 空闲下标用栈维护 分配释放均为O(1)
type PathNodePool struct {
	nodes     []PathNode
	freeStack []int32
}

func NewPathNodePool(capacity int32) *PathNodePool {
	if capacity < 0 {
		capacity = 0
	}
	p := new(PathNodePool)
	p.nodes = make([]PathNode, capacity)
	p.freeStack = make([]int32, capacity)
	for i := int32(0); i < capacity; i++ {
		p.nodes[i].poolIdx = i
		p.freeStack[i] = capacity - 1 - i
	}
	return p
}

func (p *PathNodePool) Capacity() int32 {
	return int32(len(p.nodes))
}

func (p *PathNodePool) FreeCount() int32 {
	return int32(len(p.freeStack))
}

// Allocate 取出一个空闲节点 池耗尽时返回nil
func (p *PathNodePool) Allocate() *PathNode {
	if len(p.freeStack) == 0 {
		return nil
	}
	idx := p.freeStack[len(p.freeStack)-1]
	p.freeStack = p.freeStack[:len(p.freeStack)-1]
	node := &p.nodes[idx]
	node.Pos = alg.Vector3{}
	node.PolyId = 0
	node.Cost = 0.0
	node.Heuristic = 0.0
	node.TotalCost = 0.0
	node.Parent = nil
	return node
}

// Release 归还节点 清除前驱引用后重新可分配
func (p *PathNodePool) Release(node *PathNode) {
	if node == nil {
		return
	}
	node.Parent = nil
	p.freeStack = append(p.freeStack, node.poolIdx)
}
