package navmesh

import (
	"testing"
	"time"

	"github.com/pascaldisse/mxo-decompiled/pkg/alg"
)

func newTestFinder(poolSize int32) (*PathFinder, *PathNodePool) {
	pool := NewPathNodePool(poolSize)
	return NewPathFinder(pool), pool
}

func TestFindPathSamePolygon(t *testing.T) {
	mesh := buildChainMesh(t, 3, 4.0)
	finder, pool := newTestFinder(16)
	path, result := finder.FindPath(mesh, alg.NewVector3(0.0, 0.0, 0.0), alg.NewVector3(0.5, 0.0, 0.0), nil)
	if result != PATHFIND_SUCCESS {
		t.Fatalf("result error, got: %v", result)
	}
	wayPointList := path.GetWayPointList()
	if len(wayPointList) != 1 {
		t.Fatalf("way point count error, got: %v", len(wayPointList))
	}
	if wayPointList[0].PolyId != 1 {
		t.Fatalf("way point poly error, got: %v", wayPointList[0].PolyId)
	}
	if pool.FreeCount() != pool.Capacity() {
		t.Fatalf("pool should be fully returned, free: %v", pool.FreeCount())
	}
}

func TestFindPathChain(t *testing.T) {
	mesh := buildChainMesh(t, 4, 4.0)
	finder, pool := newTestFinder(16)
	start := alg.NewVector3(0.0, 0.0, 0.0)
	end := alg.NewVector3(12.0, 0.0, 0.0)
	path, result := finder.FindPath(mesh, start, end, nil)
	if result != PATHFIND_SUCCESS {
		t.Fatalf("result error, got: %v", result)
	}
	wayPointList := path.GetWayPointList()
	if len(wayPointList) < 2 {
		t.Fatalf("way point count error, got: %v", len(wayPointList))
	}
	// 首点为起点 尾点落在终点多边形
	if wayPointList[0].Pos != start || wayPointList[0].PolyId != 1 {
		t.Fatalf("first way point error, got: %+v", wayPointList[0])
	}
	if wayPointList[len(wayPointList)-1].PolyId != 4 {
		t.Fatalf("last way point error, got: %+v", wayPointList[len(wayPointList)-1])
	}
	// 相邻途经点所在多边形互为邻居
	for i := 1; i < len(wayPointList); i++ {
		if !finder.polysConnected(mesh, wayPointList[i-1].PolyId, wayPointList[i].PolyId) {
			t.Fatalf("way point %v and %v not connected", i-1, i)
		}
	}
	if path.CanContinue() {
		t.Fatal("success path should not retain search state")
	}
	if pool.FreeCount() != pool.Capacity() {
		t.Fatalf("pool should be fully returned, free: %v", pool.FreeCount())
	}
}

func TestFindPathInvalidEndpoints(t *testing.T) {
	mesh := buildChainMesh(t, 2, 4.0)
	finder, pool := newTestFinder(16)
	_, result := finder.FindPath(mesh, alg.NewVector3(100.0, 0.0, 0.0), alg.NewVector3(4.0, 0.0, 0.0), nil)
	if result != PATHFIND_INVALID_START {
		t.Fatalf("result error, got: %v", result)
	}
	_, result = finder.FindPath(mesh, alg.NewVector3(0.0, 0.0, 0.0), alg.NewVector3(100.0, 0.0, 0.0), nil)
	if result != PATHFIND_INVALID_END {
		t.Fatalf("result error, got: %v", result)
	}
	// 起终点非法时不消耗任何节点
	if pool.FreeCount() != pool.Capacity() {
		t.Fatalf("pool should be untouched, free: %v", pool.FreeCount())
	}
}

func TestFindPathExcludedArea(t *testing.T) {
	mesh := buildChainMesh(t, 3, 4.0)
	mesh.GetPolygon(2).Area = AREA_NO_NAVIGATION
	finder, pool := newTestFinder(16)
	path, result := finder.FindPath(mesh, alg.NewVector3(0.0, 0.0, 0.0), alg.NewVector3(8.0, 0.0, 0.0), nil)
	if result != PATHFIND_NO_PATH {
		t.Fatalf("result error, got: %v", result)
	}
	if path.CanContinue() {
		t.Fatal("no path should not retain search state")
	}
	if pool.FreeCount() != pool.Capacity() {
		t.Fatalf("pool should be fully returned, free: %v", pool.FreeCount())
	}
}

func TestFindPathDisconnected(t *testing.T) {
	// 两个互不连通的分量 有限步内返回无路径
	polyList := []*NavMeshPoly{
		{Id: 1, Center: alg.NewVector3(0.0, 0.0, 0.0), Area: AREA_WALKABLE, Neighbors: []uint32{2}},
		{Id: 2, Center: alg.NewVector3(4.0, 0.0, 0.0), Area: AREA_WALKABLE, Neighbors: []uint32{1}},
		{Id: 3, Center: alg.NewVector3(20.0, 0.0, 0.0), Area: AREA_WALKABLE},
	}
	mesh := NewNavMesh()
	err := mesh.LoadData(polyList)
	if err != nil {
		t.Fatalf("load mesh error: %v", err)
	}
	finder, pool := newTestFinder(16)
	path, result := finder.FindPath(mesh, alg.NewVector3(0.0, 0.0, 0.0), alg.NewVector3(20.0, 0.0, 0.0), nil)
	if result != PATHFIND_NO_PATH {
		t.Fatalf("result error, got: %v", result)
	}
	if path.CanContinue() {
		t.Fatal("no path should not retain search state")
	}
	if pool.FreeCount() != pool.Capacity() {
		t.Fatalf("pool should be fully returned, free: %v", pool.FreeCount())
	}
}

func TestFindPathMaxNodesLimit(t *testing.T) {
	mesh := buildChainMesh(t, 5, 4.0)
	finder, pool := newTestFinder(16)
	options := DefaultPathFindOptions()
	options.MaxNodes = 1
	_, result := finder.FindPath(mesh, alg.NewVector3(0.0, 0.0, 0.0), alg.NewVector3(16.0, 0.0, 0.0), options)
	if result != PATHFIND_OUT_OF_NODES {
		t.Fatalf("result error, got: %v", result)
	}
	if pool.FreeCount() != pool.Capacity() {
		t.Fatalf("pool should be fully returned, free: %v", pool.FreeCount())
	}
}

func TestFindPathPoolExhausted(t *testing.T) {
	mesh := buildChainMesh(t, 5, 4.0)
	finder, pool := newTestFinder(1)
	_, result := finder.FindPath(mesh, alg.NewVector3(0.0, 0.0, 0.0), alg.NewVector3(16.0, 0.0, 0.0), nil)
	if result != PATHFIND_OUT_OF_NODES {
		t.Fatalf("result error, got: %v", result)
	}
	if pool.FreeCount() != pool.Capacity() {
		t.Fatalf("pool should be fully returned, free: %v", pool.FreeCount())
	}
	// 容量为0的池每次查询都立即报节点耗尽
	finder, _ = newTestFinder(0)
	_, result = finder.FindPath(mesh, alg.NewVector3(0.0, 0.0, 0.0), alg.NewVector3(16.0, 0.0, 0.0), nil)
	if result != PATHFIND_OUT_OF_NODES {
		t.Fatalf("zero pool result error, got: %v", result)
	}
}

func TestFindPathPartialAndContinue(t *testing.T) {
	mesh := buildChainMesh(t, 10, 4.0)
	finder, pool := newTestFinder(64)
	options := DefaultPathFindOptions()
	options.MaxIterations = 2
	start := alg.NewVector3(0.0, 0.0, 0.0)
	end := alg.NewVector3(36.0, 0.0, 0.0)
	path, result := finder.FindPath(mesh, start, end, options)
	if result != PATHFIND_PARTIAL {
		t.Fatalf("result error, got: %v", result)
	}
	if !path.IsPartial() || !path.CanContinue() {
		t.Fatal("partial path should retain search state")
	}
	wayPointList := path.GetWayPointList()
	if len(wayPointList) == 0 {
		t.Fatal("partial path should have way points")
	}
	if wayPointList[0].Pos != start {
		t.Fatalf("partial path should start at start, got: %+v", wayPointList[0])
	}
	// 部分路径保留现场 节点未全部归还
	if pool.FreeCount() == pool.Capacity() {
		t.Fatal("partial path should keep nodes borrowed")
	}
	// 续算至成功
	result = finder.ContinuePath(path, 100, 0)
	if result != PATHFIND_SUCCESS {
		t.Fatalf("continue result error, got: %v", result)
	}
	wayPointList = path.GetWayPointList()
	if wayPointList[len(wayPointList)-1].PolyId != 10 {
		t.Fatalf("continued path should reach end, got: %+v", wayPointList[len(wayPointList)-1])
	}
	if path.CanContinue() {
		t.Fatal("success path should not retain search state")
	}
	if pool.FreeCount() != pool.Capacity() {
		t.Fatalf("pool should be fully returned, free: %v", pool.FreeCount())
	}
}

func TestFindPathReleasePartial(t *testing.T) {
	mesh := buildChainMesh(t, 10, 4.0)
	finder, pool := newTestFinder(64)
	options := DefaultPathFindOptions()
	options.MaxIterations = 2
	path, result := finder.FindPath(mesh, alg.NewVector3(0.0, 0.0, 0.0), alg.NewVector3(36.0, 0.0, 0.0), options)
	if result != PATHFIND_PARTIAL {
		t.Fatalf("result error, got: %v", result)
	}
	finder.Release(path)
	if path.CanContinue() {
		t.Fatal("released path should not retain search state")
	}
	if pool.FreeCount() != pool.Capacity() {
		t.Fatalf("pool should be fully returned, free: %v", pool.FreeCount())
	}
	// 重复释放无副作用
	finder.Release(path)
	if pool.FreeCount() != pool.Capacity() {
		t.Fatalf("double release error, free: %v", pool.FreeCount())
	}
}

func TestContinuePathInvalid(t *testing.T) {
	finder, _ := newTestFinder(16)
	if finder.ContinuePath(nil, 100, 0) != PATHFIND_ERROR {
		t.Fatal("continue nil path should fail")
	}
	if finder.ContinuePath(new(NavMeshPath), 100, 0) != PATHFIND_ERROR {
		t.Fatal("continue path without state should fail")
	}
}

func TestFindPathTimeout(t *testing.T) {
	// 超时按固定迭代间隔检查 链要足够长
	mesh := buildChainMesh(t, 200, 4.0)
	finder, _ := newTestFinder(512)
	options := DefaultPathFindOptions()
	options.MaxDistance = 0.0
	options.Timeout = time.Nanosecond
	path, result := finder.FindPath(mesh, alg.NewVector3(0.0, 0.0, 0.0), alg.NewVector3(796.0, 0.0, 0.0), options)
	if result != PATHFIND_TIMEOUT {
		t.Fatalf("result error, got: %v", result)
	}
	if !path.CanContinue() {
		t.Fatal("timeout path should retain search state")
	}
	finder.Release(path)
}

func TestFindPathMaxDistance(t *testing.T) {
	mesh := buildChainMesh(t, 5, 4.0)
	finder, _ := newTestFinder(16)
	options := DefaultPathFindOptions()
	options.MaxDistance = 1.0
	_, result := finder.FindPath(mesh, alg.NewVector3(0.0, 0.0, 0.0), alg.NewVector3(16.0, 0.0, 0.0), options)
	if result != PATHFIND_NO_PATH {
		t.Fatalf("result error, got: %v", result)
	}
}

func TestFindPathAreaCost(t *testing.T) {
	// 菱形 上路为水面 下路为普通区域 代价函数应把路径推向下路
	polyList := []*NavMeshPoly{
		{Id: 1, Center: alg.NewVector3(0.0, 0.0, 0.0), Area: AREA_WALKABLE, Neighbors: []uint32{2, 3}},
		{Id: 2, Center: alg.NewVector3(4.0, 0.0, 2.0), Area: AREA_WATER, Neighbors: []uint32{1, 4}},
		{Id: 3, Center: alg.NewVector3(4.0, 0.0, -2.0), Area: AREA_WALKABLE, Neighbors: []uint32{1, 4}},
		{Id: 4, Center: alg.NewVector3(8.0, 0.0, 0.0), Area: AREA_WALKABLE, Neighbors: []uint32{2, 3}},
	}
	mesh := NewNavMesh()
	err := mesh.LoadData(polyList)
	if err != nil {
		t.Fatalf("load mesh error: %v", err)
	}
	finder, _ := newTestFinder(16)
	options := DefaultPathFindOptions()
	options.AreaFlags = AREA_WALKABLE | AREA_WATER
	options.AreaCost = func(area uint8) float32 {
		if area&AREA_WATER != 0 {
			return 10.0
		}
		return 1.0
	}
	path, result := finder.FindPath(mesh, alg.NewVector3(0.0, 0.0, 0.0), alg.NewVector3(8.0, 0.0, 0.0), options)
	if result != PATHFIND_SUCCESS {
		t.Fatalf("result error, got: %v", result)
	}
	for _, wayPoint := range path.GetWayPointList() {
		if wayPoint.PolyId == 2 {
			t.Fatal("path should avoid water polygon")
		}
	}
}

func TestSmoothPath(t *testing.T) {
	// p1和p3相邻时共线中间点可删 否则必须保留
	polyList := []*NavMeshPoly{
		{Id: 1, Center: alg.NewVector3(0.0, 0.0, 0.0), Area: AREA_WALKABLE, Neighbors: []uint32{2, 3}},
		{Id: 2, Center: alg.NewVector3(4.0, 0.0, 0.0), Area: AREA_WALKABLE, Neighbors: []uint32{1, 3}},
		{Id: 3, Center: alg.NewVector3(8.0, 0.0, 0.0), Area: AREA_WALKABLE, Neighbors: []uint32{1, 2}},
	}
	mesh := NewNavMesh()
	err := mesh.LoadData(polyList)
	if err != nil {
		t.Fatalf("load mesh error: %v", err)
	}
	finder, _ := newTestFinder(16)
	wayPointList := []*PathWayPoint{
		{Pos: alg.NewVector3(0.0, 0.0, 0.0), PolyId: 1},
		{Pos: alg.NewVector3(4.0, 0.0, 0.0), PolyId: 2},
		{Pos: alg.NewVector3(8.0, 0.0, 0.0), PolyId: 3},
	}
	smoothed := finder.smoothPath(mesh, wayPointList, 0.1)
	if len(smoothed) != 2 {
		t.Fatalf("collinear point should be dropped, got: %v", len(smoothed))
	}
	// 同样的点但p1不再与p3相邻 删除会破坏逐段可通行
	mesh.GetPolygon(1).Neighbors = []uint32{2}
	smoothed = finder.smoothPath(mesh, wayPointList, 0.1)
	if len(smoothed) != 3 {
		t.Fatalf("point should be kept when polys not adjacent, got: %v", len(smoothed))
	}
	// 偏离容差的点保留
	mesh.GetPolygon(1).Neighbors = []uint32{2, 3}
	wayPointList[1].Pos = alg.NewVector3(4.0, 0.0, 1.0)
	smoothed = finder.smoothPath(mesh, wayPointList, 0.1)
	if len(smoothed) != 3 {
		t.Fatalf("point out of tolerance should be kept, got: %v", len(smoothed))
	}
}

func TestFindPathMaxIterationsMonotonic(t *testing.T) {
	// 迭代上限越大结果不会更差
	mesh := buildChainMesh(t, 10, 4.0)
	finder, _ := newTestFinder(64)
	success := false
	for maxIterations := int32(1); maxIterations <= 20; maxIterations++ {
		options := DefaultPathFindOptions()
		options.MaxIterations = maxIterations
		path, result := finder.FindPath(mesh, alg.NewVector3(0.0, 0.0, 0.0), alg.NewVector3(36.0, 0.0, 0.0), options)
		if success && result != PATHFIND_SUCCESS {
			t.Fatalf("larger iteration limit should not regress, maxIterations: %v, result: %v", maxIterations, result)
		}
		if result == PATHFIND_SUCCESS {
			success = true
		}
		finder.Release(path)
	}
	if !success {
		t.Fatal("chain should be solvable within 20 iterations")
	}
}
