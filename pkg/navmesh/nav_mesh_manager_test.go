package navmesh

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pascaldisse/mxo-decompiled/pkg/alg"
	"github.com/pascaldisse/mxo-decompiled/pkg/navmesh/format"
)

// 在X轴上生成多边形链的网格数据
func buildChainMeshData(meshId uint32, count int, spacing float32) *format.NavMeshData {
	navMeshData := &format.NavMeshData{
		MeshId:   meshId,
		Name:     "test_chain",
		Polygons: make([]*format.PolygonData, 0, count),
	}
	for i := 0; i < count; i++ {
		polygonData := &format.PolygonData{
			Id:     uint32(i + 1),
			Center: &format.Vector3{X: float32(i) * spacing, Y: 0.0, Z: 0.0},
			Area:   AREA_WALKABLE,
		}
		if i > 0 {
			polygonData.Neighbors = append(polygonData.Neighbors, uint32(i))
		}
		if i < count-1 {
			polygonData.Neighbors = append(polygonData.Neighbors, uint32(i+2))
		}
		navMeshData.Polygons = append(navMeshData.Polygons, polygonData)
	}
	return navMeshData
}

func TestManagerLoadUnload(t *testing.T) {
	m := NewNavMeshManager(64)
	if _, hasActive := m.GetActiveWorldId(); hasActive {
		t.Fatal("new manager should have no active world")
	}
	err := m.LoadNavMeshData(buildChainMeshData(1, 3, 4.0), 1)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	// 首个加载的世界自动激活
	worldId, hasActive := m.GetActiveWorldId()
	if !hasActive || worldId != 1 {
		t.Fatalf("active world error, worldId: %v, hasActive: %v", worldId, hasActive)
	}
	// 再加载一个世界不改变激活世界
	err = m.LoadNavMeshData(buildChainMeshData(2, 3, 4.0), 2)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	worldId, _ = m.GetActiveWorldId()
	if worldId != 1 {
		t.Fatalf("active world should stay, got: %v", worldId)
	}
	if m.GetMesh(2) == nil {
		t.Fatal("world 2 should be loaded")
	}
	// 卸载激活世界 不自动提升其它世界
	if !m.UnloadNavMesh(1) {
		t.Fatal("unload failed")
	}
	if _, hasActive = m.GetActiveWorldId(); hasActive {
		t.Fatal("unloading active world should clear active")
	}
	if m.UnloadNavMesh(1) {
		t.Fatal("unload twice should fail")
	}
	// 无激活世界时寻路失败
	_, result := m.FindPath(alg.NewVector3(0.0, 0.0, 0.0), alg.NewVector3(8.0, 0.0, 0.0), nil)
	if result != PATHFIND_ERROR {
		t.Fatalf("no active world should fail, got: %v", result)
	}
}

func TestManagerLoadFromFile(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "test_mesh.bin")
	err := format.SaveToFile(fileName, buildChainMeshData(5, 3, 4.0))
	if err != nil {
		t.Fatalf("save mesh file error: %v", err)
	}
	m := NewNavMeshManager(64)
	// worldId为0时取文件内的mesh_id
	err = m.LoadNavMesh(fileName, 0)
	if err != nil {
		t.Fatalf("load mesh file error: %v", err)
	}
	worldId, hasActive := m.GetActiveWorldId()
	if !hasActive || worldId != 5 {
		t.Fatalf("world id should come from file, got: %v", worldId)
	}
	if m.LoadNavMesh(filepath.Join(t.TempDir(), "missing.bin"), 0) == nil {
		t.Fatal("missing file should fail")
	}
}

func TestManagerFindPath(t *testing.T) {
	m := NewNavMeshManager(64)
	_ = m.LoadNavMeshData(buildChainMeshData(1, 4, 4.0), 1)
	path, result := m.FindPath(alg.NewVector3(0.0, 0.0, 0.0), alg.NewVector3(12.0, 0.0, 0.0), nil)
	if result != PATHFIND_SUCCESS {
		t.Fatalf("result error, got: %v", result)
	}
	if len(path.GetWayPointList()) < 2 {
		t.Fatalf("way point count error, got: %v", len(path.GetWayPointList()))
	}
	// 指定世界寻路
	_, result = m.FindPathInWorld(2, alg.NewVector3(0.0, 0.0, 0.0), alg.NewVector3(12.0, 0.0, 0.0), nil)
	if result != PATHFIND_ERROR {
		t.Fatalf("unloaded world should fail, got: %v", result)
	}
}

func TestManagerContinueAndRelease(t *testing.T) {
	m := NewNavMeshManager(64)
	_ = m.LoadNavMeshData(buildChainMeshData(1, 10, 4.0), 1)
	override := m.GetDefaultOptions()
	override.MaxIterations = 2
	path, result := m.FindPath(alg.NewVector3(0.0, 0.0, 0.0), alg.NewVector3(36.0, 0.0, 0.0), override)
	if result != PATHFIND_PARTIAL {
		t.Fatalf("result error, got: %v", result)
	}
	result = m.ContinuePath(path, 100, 0)
	if result != PATHFIND_SUCCESS {
		t.Fatalf("continue result error, got: %v", result)
	}
	m.ReleasePath(path)
}

func TestManagerPositionQuery(t *testing.T) {
	m := NewNavMeshManager(64)
	meshData := buildChainMeshData(1, 3, 4.0)
	meshData.Polygons[1].Area = AREA_WALKABLE | AREA_INDOORS
	meshData.Polygons[1].Height = 1.5
	_ = m.LoadNavMeshData(meshData, 1)

	valid, polyId := m.IsPositionValid(alg.NewVector3(0.0, 0.0, 0.0))
	if !valid || polyId != 1 {
		t.Fatalf("position valid error, valid: %v, polyId: %v", valid, polyId)
	}
	valid, _ = m.IsPositionValid(alg.NewVector3(100.0, 0.0, 0.0))
	if valid {
		t.Fatal("far position should be invalid")
	}

	if !m.IsIndoors(alg.NewVector3(4.0, 1.5, 0.0)) {
		t.Fatal("indoors polygon should report indoors")
	}
	if m.IsIndoors(alg.NewVector3(0.0, 0.0, 0.0)) {
		t.Fatal("outdoor polygon should not report indoors")
	}

	// 垂直坐标吸附到多边形参考高度
	pos, found := m.FindNearestValidPosition(alg.NewVector3(4.0, 10.0, 0.0), 10.0)
	if !found || pos.Y != 1.5 || pos.X != 4.0 {
		t.Fatalf("nearest position error, found: %v, pos: %+v", found, pos)
	}
	_, found = m.FindNearestValidPosition(alg.NewVector3(1000.0, 0.0, 0.0), 10.0)
	if found {
		t.Fatal("far position should not be found")
	}
}

func TestManagerRayCast(t *testing.T) {
	m := NewNavMeshManager(64)
	_ = m.LoadNavMeshData(buildChainMeshData(1, 1, 4.0), 1)
	// 射向网格外 命中点在网格边缘附近
	result := m.RayCast(alg.NewVector3(0.0, 0.0, 0.0), alg.NewVector3(10.0, 0.0, 0.0))
	if !result.Hit {
		t.Fatal("ray should leave the mesh")
	}
	if result.Position.X > 2.5 {
		t.Fatalf("hit position error, got: %+v", result.Position)
	}
	if result.PolyId != 1 {
		t.Fatalf("hit poly error, got: %v", result.PolyId)
	}
	// 网格内短射线不命中
	result = m.RayCast(alg.NewVector3(0.0, 0.0, 0.0), alg.NewVector3(1.0, 0.0, 0.0))
	if result.Hit {
		t.Fatalf("ray inside mesh should not hit, got: %+v", result)
	}
	// 起点在网格外 立即命中
	result = m.RayCast(alg.NewVector3(100.0, 0.0, 0.0), alg.NewVector3(0.0, 0.0, 0.0))
	if !result.Hit || result.Distance != 0.0 {
		t.Fatalf("ray from outside should hit at start, got: %+v", result)
	}
}

func TestManagerRandomPosition(t *testing.T) {
	m := NewNavMeshManager(64)
	_ = m.LoadNavMeshData(buildChainMeshData(1, 3, 4.0), 1)
	pos, found := m.GetRandomPosition(alg.NewVector3(0.0, 0.0, 0.0), 100.0)
	if !found {
		t.Fatal("random position should be found")
	}
	if valid, _ := m.IsPositionValid(pos); !valid {
		t.Fatalf("random position should be on mesh, got: %+v", pos)
	}
	_, found = m.GetRandomPosition(alg.NewVector3(1000.0, 0.0, 0.0), 1.0)
	if found {
		t.Fatal("empty region should not return position")
	}
}

func TestManagerParams(t *testing.T) {
	m := NewNavMeshManager(64)
	if m.GetParameter(ParamLogPathfinding, 0.0) != 0.0 {
		t.Fatal("unset param should return default")
	}
	m.SetParameter(ParamLogPathfinding, 1.0)
	if m.GetParameter(ParamLogPathfinding, 0.0) != 1.0 {
		t.Fatal("param set error")
	}
	m.SetDrawMesh(true)
	if !m.GetDrawMesh() {
		t.Fatal("draw mesh flag error")
	}
}

func TestManagerSetNavMeshParams(t *testing.T) {
	m := NewNavMeshManager(64)
	_ = m.LoadNavMeshData(buildChainMeshData(1, 1, 4.0), 1)
	// 收紧高度带后带外位置判定失效
	m.SetNavMeshParams(-1.0, 1.0)
	if valid, _ := m.IsPositionValid(alg.NewVector3(0.0, 10.0, 0.0)); valid {
		t.Fatal("position above tightened band should be invalid")
	}
	if valid, _ := m.IsPositionValid(alg.NewVector3(0.0, 0.5, 0.0)); !valid {
		t.Fatal("position in band should be valid")
	}
	// 新的高度带对后续加载的世界同样生效
	_ = m.LoadNavMeshData(buildChainMeshData(2, 1, 4.0), 2)
	mesh := m.GetMesh(2)
	if mesh.FindPolygon(alg.NewVector3(0.0, 10.0, 0.0), DefaultPolyRadius) != 0 {
		t.Fatal("height band should apply to new world")
	}
}

func TestManagerRegionQuery(t *testing.T) {
	m := NewNavMeshManager(64)
	_ = m.LoadNavMeshData(buildChainMeshData(1, 5, 4.0), 1)
	polyList, err := m.GetPolygonsInRegion(0, alg.NewVector3(0.0, 0.0, 0.0), 5.0)
	if err != nil {
		t.Fatalf("region query error: %v", err)
	}
	if len(polyList) != 2 {
		t.Fatalf("region query count error, got: %v", len(polyList))
	}
	_, err = m.GetPolygonsInRegion(99, alg.NewVector3(0.0, 0.0, 0.0), 5.0)
	if err == nil {
		t.Fatal("unloaded world should fail")
	}
}

func TestManagerLoadCorruptFile(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "corrupt.bin")
	err := os.WriteFile(fileName, []byte("not a mesh"), 0644)
	if err != nil {
		t.Fatalf("write file error: %v", err)
	}
	m := NewNavMeshManager(64)
	if m.LoadNavMesh(fileName, 1) == nil {
		t.Fatal("corrupt file should fail")
	}
}
