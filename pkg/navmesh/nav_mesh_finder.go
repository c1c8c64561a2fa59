package navmesh

import (
	"time"

	"github.com/pascaldisse/mxo-decompiled/pkg/alg"
	"github.com/pascaldisse/mxo-decompiled/pkg/logger"
)

// PathFinder A*寻路器 节点全部借自节点池 同一时刻只允许一个查询在途
type PathFinder struct {
	pool     *PathNodePool
	debugLog bool
}

func NewPathFinder(pool *PathNodePool) *PathFinder {
	f := new(PathFinder)
	f.pool = pool
	return f
}

func (f *PathFinder) SetDebugLog(enable bool) {
	f.debugLog = enable
}

// FindPath 在指定网格上查找start到end的路径
func (f *PathFinder) FindPath(mesh *NavMesh, start alg.Vector3, end alg.Vector3, options *PathFindOptions) (*NavMeshPath, PathFindResult) {
	if options == nil {
		options = DefaultPathFindOptions()
	}
	if f.debugLog {
		logger.Debug("find path, start: %+v, end: %+v, maxIterations: %v, maxNodes: %v",
			start, end, options.MaxIterations, options.MaxNodes)
	}
	path := new(NavMeshPath)
	// 起终点解析在任何节点分配之前完成
	startPolyId := mesh.FindPolygon(start, DefaultPolyRadius)
	if startPolyId == 0 {
		path.result = PATHFIND_INVALID_START
		return path, PATHFIND_INVALID_START
	}
	endPolyId := mesh.FindPolygon(end, DefaultPolyRadius)
	if endPolyId == 0 {
		path.result = PATHFIND_INVALID_END
		return path, PATHFIND_INVALID_END
	}
	state := &searchState{
		mesh:      mesh,
		endPos:    end,
		endPolyId: endPolyId,
		options:   options,
	}
	startNode := f.allocateNode(state)
	if startNode == nil {
		path.result = PATHFIND_OUT_OF_NODES
		return path, PATHFIND_OUT_OF_NODES
	}
	startNode.Pos = start
	startNode.PolyId = startPolyId
	startNode.Cost = 0.0
	startNode.Heuristic = start.Distance(end)
	startNode.TotalCost = startNode.Heuristic
	startNode.Parent = nil
	state.openList = append(state.openList, startNode)
	return path, f.expand(state, path, options.MaxIterations)
}

// ContinuePath 以新的迭代预算在保留的搜索现场上续算
func (f *PathFinder) ContinuePath(path *NavMeshPath, maxIterations int32, maxNodes int32) PathFindResult {
	if path == nil || path.state == nil {
		return PATHFIND_ERROR
	}
	if maxNodes > path.state.options.MaxNodes {
		path.state.options.MaxNodes = maxNodes
	}
	return f.expand(path.state, path, maxIterations)
}

func (f *PathFinder) allocateNode(state *searchState) *PathNode {
	if state.allocCount >= state.options.MaxNodes {
		return nil
	}
	node := f.pool.Allocate()
	if node != nil {
		state.allocCount++
	}
	return node
}

// releaseState 归还本次查询借用的全部节点
func (f *PathFinder) releaseState(state *searchState) {
	for _, node := range state.openList {
		f.pool.Release(node)
	}
	for _, node := range state.closedList {
		f.pool.Release(node)
	}
	state.openList = nil
	state.closedList = nil
}

// Release 放弃路径保留的搜索现场 归还节点
func (f *PathFinder) Release(path *NavMeshPath) {
	if path == nil || path.state == nil {
		return
	}
	f.releaseState(path.state)
	path.state = nil
}

// expand A*主循环 开放集为空或迭代预算耗尽时停止
func (f *PathFinder) expand(state *searchState, path *NavMeshPath, maxIterations int32) PathFindResult {
	options := state.options
	if options.Timeout > 0 {
		state.deadline = time.Now().Add(options.Timeout)
	}
	iterations := int32(0)
	for len(state.openList) > 0 && iterations < maxIterations {
		// 循环体内无天然挂起点 按固定间隔检查超时
		if iterations > 0 && iterations%timeoutCheckInterval == 0 &&
			!state.deadline.IsZero() && time.Now().After(state.deadline) {
			f.finishPartial(state, path)
			path.result = PATHFIND_TIMEOUT
			return PATHFIND_TIMEOUT
		}
		// 稳定的首个最小值扫描 总代价相同时保持插入序
		bestIdx := 0
		for i := 1; i < len(state.openList); i++ {
			if state.openList[i].TotalCost < state.openList[bestIdx].TotalCost {
				bestIdx = i
			}
		}
		current := state.openList[bestIdx]
		state.openList = append(state.openList[:bestIdx], state.openList[bestIdx+1:]...)
		state.closedList = append(state.closedList, current)

		if current.PolyId == state.endPolyId {
			path.wayPointList = f.reconstructPath(state, current)
			path.result = PATHFIND_SUCCESS
			f.releaseState(state)
			path.state = nil
			if f.debugLog {
				logger.Debug("find path success, wayPointCount: %v, iterations: %v", len(path.wayPointList), iterations)
			}
			return PATHFIND_SUCCESS
		}

		currentPoly := state.mesh.GetPolygon(current.PolyId)
		if currentPoly == nil {
			// 网格数据缺陷 跳过而非中断查询
			iterations++
			continue
		}
		for _, neighborId := range currentPoly.Neighbors {
			if f.inClosedList(state, neighborId) {
				continue
			}
			neighborPoly := state.mesh.GetPolygon(neighborId)
			if neighborPoly == nil {
				continue
			}
			// 区域过滤 未命中包含掩码或命中排除掩码的多边形视为不存在
			if neighborPoly.Area&options.ExcludedAreaFlags != 0 {
				continue
			}
			if neighborPoly.Area&options.AreaFlags == 0 {
				continue
			}
			// 以当前位置与邻居中心的中点近似跨边位置
			newPos := current.Pos.Midpoint(neighborPoly.Center)
			stepCost := current.Pos.Distance(newPos)
			if options.AreaCost != nil {
				stepCost *= options.AreaCost(neighborPoly.Area)
			}
			newCost := current.Cost + stepCost
			if options.MaxDistance > 0 && newCost > options.MaxDistance {
				continue
			}
			existing := f.findOpenNode(state, neighborId)
			if existing != nil && existing.Cost <= newCost {
				continue
			}
			node := existing
			if node == nil {
				node = f.allocateNode(state)
				if node == nil {
					// 节点耗尽终止整个查询 归还全部已借节点
					f.releaseState(state)
					path.state = nil
					path.wayPointList = nil
					path.result = PATHFIND_OUT_OF_NODES
					return PATHFIND_OUT_OF_NODES
				}
				state.openList = append(state.openList, node)
			}
			node.Pos = newPos
			node.PolyId = neighborId
			node.Cost = newCost
			node.Heuristic = newPos.Distance(state.endPos)
			node.TotalCost = node.Cost + node.Heuristic
			node.Parent = current
		}
		iterations++
	}
	if len(state.openList) > 0 {
		f.finishPartial(state, path)
		path.result = PATHFIND_PARTIAL
		return PATHFIND_PARTIAL
	}
	f.releaseState(state)
	path.state = nil
	path.result = PATHFIND_NO_PATH
	return PATHFIND_NO_PATH
}

// finishPartial 以开放集中启发值最小的节点为终点生成部分路径 保留现场
func (f *PathFinder) finishPartial(state *searchState, path *NavMeshPath) {
	best := state.openList[0]
	for _, node := range state.openList[1:] {
		if node.Heuristic < best.Heuristic {
			best = node
		}
	}
	path.wayPointList = f.reconstructPath(state, best)
	path.state = state
}

func (f *PathFinder) inClosedList(state *searchState, polyId uint32) bool {
	for _, node := range state.closedList {
		if node.PolyId == polyId {
			return true
		}
	}
	return false
}

func (f *PathFinder) findOpenNode(state *searchState, polyId uint32) *PathNode {
	for _, node := range state.openList {
		if node.PolyId == polyId {
			return node
		}
	}
	return nil
}

// reconstructPath 沿前驱链回溯并反转为起点到终点顺序
func (f *PathFinder) reconstructPath(state *searchState, endNode *PathNode) []*PathWayPoint {
	wayPointList := make([]*PathWayPoint, 0)
	for node := endNode; node != nil; node = node.Parent {
		wayPointList = append(wayPointList, &PathWayPoint{Pos: node.Pos, PolyId: node.PolyId})
	}
	for i, j := 0, len(wayPointList)-1; i < j; i, j = i+1, j-1 {
		wayPointList[i], wayPointList[j] = wayPointList[j], wayPointList[i]
	}
	if state.options.OptimizePath && state.options.StraightPathTolerance > 0 {
		wayPointList = f.smoothPath(state.mesh, wayPointList, state.options.StraightPathTolerance)
	}
	return wayPointList
}

// smoothPath 删除容差内近似共线的途经点 仅在前后多边形仍相邻时删除 保持路径逐段可通行
func (f *PathFinder) smoothPath(mesh *NavMesh, wayPointList []*PathWayPoint, tolerance float32) []*PathWayPoint {
	if len(wayPointList) < 3 {
		return wayPointList
	}
	result := make([]*PathWayPoint, 0, len(wayPointList))
	result = append(result, wayPointList[0])
	for i := 1; i < len(wayPointList)-1; i++ {
		prev := result[len(result)-1]
		next := wayPointList[i+1]
		if wayPointList[i].Pos.DistanceToSegment(prev.Pos, next.Pos) <= tolerance &&
			f.polysConnected(mesh, prev.PolyId, next.PolyId) {
			continue
		}
		result = append(result, wayPointList[i])
	}
	result = append(result, wayPointList[len(wayPointList)-1])
	return result
}

func (f *PathFinder) polysConnected(mesh *NavMesh, a uint32, b uint32) bool {
	if a == b {
		return true
	}
	poly := mesh.GetPolygon(a)
	if poly == nil {
		return false
	}
	for _, neighborId := range poly.Neighbors {
		if neighborId == b {
			return true
		}
	}
	return false
}
