package navmesh

import (
	"time"

	"github.com/pascaldisse/mxo-decompiled/pkg/alg"
)

// PathWayPoint 路径上的一个途经点
type PathWayPoint struct {
	Pos    alg.Vector3 // 途经点位置
	PolyId uint32      // 所在多边形id
}

// NavMeshPath 一次寻路查询的结果 部分路径保留搜索现场可用于续算
type NavMeshPath struct {
	wayPointList []*PathWayPoint
	result       PathFindResult
	state        *searchState // 非nil时可通过ContinuePath续算
}

// searchState A*搜索现场 开放集 关闭集与查询参数
type searchState struct {
	mesh       *NavMesh
	openList   []*PathNode
	closedList []*PathNode
	endPos     alg.Vector3
	endPolyId  uint32
	options    *PathFindOptions
	allocCount int32
	deadline   time.Time
}

func (p *NavMeshPath) GetWayPointList() []*PathWayPoint {
	return p.wayPointList
}

func (p *NavMeshPath) GetResult() PathFindResult {
	return p.result
}

// IsPartial 是否为未到达终点的部分路径
func (p *NavMeshPath) IsPartial() bool {
	return p.result == PATHFIND_PARTIAL || p.result == PATHFIND_TIMEOUT
}

// CanContinue 是否仍保留搜索现场
func (p *NavMeshPath) CanContinue() bool {
	return p.state != nil
}

// Distance 路径总长度
func (p *NavMeshPath) Distance() float32 {
	total := float32(0.0)
	for i := 1; i < len(p.wayPointList); i++ {
		total += p.wayPointList[i-1].Pos.Distance(p.wayPointList[i].Pos)
	}
	return total
}
