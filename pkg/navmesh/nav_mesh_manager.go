package navmesh

import (
	"errors"
	"math/rand"
	"sync"

	"github.com/pascaldisse/mxo-decompiled/pkg/alg"
	"github.com/pascaldisse/mxo-decompiled/pkg/logger"
	"github.com/pascaldisse/mxo-decompiled/pkg/navmesh/format"
)

// 日志开关参数 大于0时输出寻路调试日志
const ParamLogPathfinding = "AI_LogNavMeshPathfinding"

// NavMeshManager 导航网格管理器
// 管理各世界的网格实例与当前激活世界 对外提供全部查询门面
// 加载卸载持有写锁 查询持有读锁 寻路查询在节点池上串行
type NavMeshManager struct {
	mu             sync.RWMutex
	searchMu       sync.Mutex
	worldMap       map[uint32]*NavMesh
	activeWorldId  uint32
	hasActive      bool
	pool           *PathNodePool
	finder         *PathFinder
	triggerManager *TriggerManager
	paramMap       map[string]float32
	defaultOptions *PathFindOptions
	checkBottom    float32
	checkTop       float32
	drawMesh       bool
	raycastStep    float32
}

func NewNavMeshManager(nodePoolSize int32) *NavMeshManager {
	m := new(NavMeshManager)
	m.worldMap = make(map[uint32]*NavMesh)
	m.pool = NewPathNodePool(nodePoolSize)
	m.finder = NewPathFinder(m.pool)
	m.triggerManager = NewTriggerManager()
	m.paramMap = make(map[string]float32)
	m.defaultOptions = DefaultPathFindOptions()
	m.checkBottom = DefaultCheckBottom
	m.checkTop = DefaultCheckTop
	m.raycastStep = 0.5
	return m
}

// SetDefaultOptions 设置引擎级默认寻路配置 单次查询可覆盖
func (m *NavMeshManager) SetDefaultOptions(options *PathFindOptions) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if options != nil {
		m.defaultOptions = options
	}
}

// GetDefaultOptions 获取引擎级默认寻路配置的副本
func (m *NavMeshManager) GetDefaultOptions() *PathFindOptions {
	m.mu.RLock()
	defer m.mu.RUnlock()
	options := *m.defaultOptions
	return &options
}

// SetParameter 设置命名参数 外部系统无须重新构建即可调整行为
func (m *NavMeshManager) SetParameter(name string, value float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paramMap[name] = value
}

// GetParameter 读取命名参数 不存在时返回默认值
func (m *NavMeshManager) GetParameter(name string, defaultValue float32) float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, exist := m.paramMap[name]
	if !exist {
		return defaultValue
	}
	return value
}

// SetNavMeshParams 调整高度判定带 对全部已加载世界生效
func (m *NavMeshManager) SetNavMeshParams(checkBottom float32, checkTop float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkBottom = checkBottom
	m.checkTop = checkTop
	for _, mesh := range m.worldMap {
		mesh.SetHeightCheck(checkBottom, checkTop)
	}
}

// SetDrawMesh 调试绘制开关 渲染侧轮询此标记后经区域查询获取几何
func (m *NavMeshManager) SetDrawMesh(draw bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drawMesh = draw
}

func (m *NavMeshManager) GetDrawMesh() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drawMesh
}

func (m *NavMeshManager) GetTriggerManager() *TriggerManager {
	return m.triggerManager
}

// LoadNavMesh 从文件加载某世界的导航网格 同id已存在时替换
// 没有激活世界时首次加载成功的世界自动成为激活世界
func (m *NavMeshManager) LoadNavMesh(fileName string, worldId uint32) error {
	navMeshData, err := format.LoadFromFile(fileName)
	if err != nil {
		logger.Error("load nav mesh file error: %v, fileName: %v", err, fileName)
		return err
	}
	if worldId == 0 {
		worldId = navMeshData.MeshId
	}
	return m.LoadNavMeshData(navMeshData, worldId)
}

// LoadNavMeshData 从已解析的网格数据加载
func (m *NavMeshManager) LoadNavMeshData(navMeshData *format.NavMeshData, worldId uint32) error {
	mesh := NewNavMesh()
	mesh.SetHeightCheck(m.checkBottom, m.checkTop)
	polyList := make([]*NavMeshPoly, 0, len(navMeshData.Polygons))
	for _, polygonData := range navMeshData.Polygons {
		poly := &NavMeshPoly{
			Id:        polygonData.Id,
			Center:    alg.NewVector3(polygonData.Center.X, polygonData.Center.Y, polygonData.Center.Z),
			Height:    polygonData.Height,
			Neighbors: polygonData.Neighbors,
			Area:      polygonData.Area,
			Flags:     polygonData.Flags,
		}
		for _, vertex := range polygonData.Vertices {
			poly.Vertices = append(poly.Vertices, alg.NewVector3(vertex.X, vertex.Y, vertex.Z))
		}
		polyList = append(polyList, poly)
	}
	err := mesh.LoadData(polyList)
	if err != nil {
		logger.Error("load nav mesh data error: %v, worldId: %v", err, worldId)
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.worldMap[worldId] = mesh
	if !m.hasActive {
		m.activeWorldId = worldId
		m.hasActive = true
	}
	logger.Info("load nav mesh ok, worldId: %v, polyCount: %v", worldId, mesh.PolyCount())
	return nil
}

// UnloadNavMesh 卸载某世界 卸载激活世界时仅清空激活指针 不自动提升其它世界
func (m *NavMeshManager) UnloadNavMesh(worldId uint32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exist := m.worldMap[worldId]
	if !exist {
		return false
	}
	delete(m.worldMap, worldId)
	if m.hasActive && m.activeWorldId == worldId {
		m.hasActive = false
		m.activeWorldId = 0
	}
	logger.Info("unload nav mesh ok, worldId: %v", worldId)
	return true
}

// GetActiveWorldId 当前激活世界id 无激活世界时第二返回值为false
func (m *NavMeshManager) GetActiveWorldId() (uint32, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeWorldId, m.hasActive
}

func (m *NavMeshManager) getActiveMesh() *NavMesh {
	if !m.hasActive {
		return nil
	}
	return m.worldMap[m.activeWorldId]
}

// GetMesh 获取某世界的网格 worldId为0时取激活世界
func (m *NavMeshManager) GetMesh(worldId uint32) *NavMesh {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if worldId == 0 {
		return m.getActiveMesh()
	}
	return m.worldMap[worldId]
}

// mergeOptions 以默认配置为底 应用单次调用的覆盖项
func (m *NavMeshManager) mergeOptions(override *PathFindOptions) *PathFindOptions {
	if override != nil {
		return override
	}
	options := *m.defaultOptions
	return &options
}

// FindPath 在激活世界上寻路
func (m *NavMeshManager) FindPath(start alg.Vector3, end alg.Vector3, override *PathFindOptions) (*NavMeshPath, PathFindResult) {
	return m.FindPathInWorld(0, start, end, override)
}

// FindPathInWorld 在指定世界上寻路 worldId为0时取激活世界
func (m *NavMeshManager) FindPathInWorld(worldId uint32, start alg.Vector3, end alg.Vector3, override *PathFindOptions) (*NavMeshPath, PathFindResult) {
	m.mu.RLock()
	var mesh *NavMesh
	if worldId == 0 {
		mesh = m.getActiveMesh()
	} else {
		mesh = m.worldMap[worldId]
	}
	options := m.mergeOptions(override)
	debugLog := m.paramMap[ParamLogPathfinding] > 0.0
	m.mu.RUnlock()
	if mesh == nil {
		path := new(NavMeshPath)
		path.result = PATHFIND_ERROR
		return path, PATHFIND_ERROR
	}
	// 节点池为共享可变状态 同一池上同时只允许一个查询
	m.searchMu.Lock()
	defer m.searchMu.Unlock()
	m.finder.SetDebugLog(debugLog)
	return m.finder.FindPath(mesh, start, end, options)
}

// ContinuePath 对部分路径续算
func (m *NavMeshManager) ContinuePath(path *NavMeshPath, maxIterations int32, maxNodes int32) PathFindResult {
	m.searchMu.Lock()
	defer m.searchMu.Unlock()
	return m.finder.ContinuePath(path, maxIterations, maxNodes)
}

// ReleasePath 放弃路径的搜索现场 归还节点
func (m *NavMeshManager) ReleasePath(path *NavMeshPath) {
	m.searchMu.Lock()
	defer m.searchMu.Unlock()
	m.finder.Release(path)
}

// IsPositionValid 位置是否在导航网格上 返回所在多边形id
func (m *NavMeshManager) IsPositionValid(pos alg.Vector3) (bool, uint32) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mesh := m.getActiveMesh()
	if mesh == nil {
		return false, 0
	}
	polyId := mesh.FindPolygon(pos, DefaultPolyRadius)
	return polyId != 0, polyId
}

// IsIndoors 位置所在多边形是否为室内区域
func (m *NavMeshManager) IsIndoors(pos alg.Vector3) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mesh := m.getActiveMesh()
	if mesh == nil {
		return false
	}
	polyId := mesh.FindPolygon(pos, DefaultPolyRadius)
	if polyId == 0 {
		return false
	}
	poly := mesh.GetPolygon(polyId)
	if poly == nil {
		return false
	}
	return poly.Area&AREA_INDOORS != 0
}

// FindNearestValidPosition 查找最近的可导航位置 垂直坐标吸附到多边形高度 水平不变
func (m *NavMeshManager) FindNearestValidPosition(pos alg.Vector3, maxDistance float32) (alg.Vector3, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mesh := m.getActiveMesh()
	if mesh == nil {
		return alg.Vector3{}, false
	}
	polyId := mesh.FindPolygon(pos, maxDistance)
	if polyId == 0 {
		return alg.Vector3{}, false
	}
	poly := mesh.GetPolygon(polyId)
	if poly == nil {
		return alg.Vector3{}, false
	}
	result := pos
	result.Y = poly.Height
	return result, true
}

// RayCast 沿线段步进采样检测离开网格的位置
func (m *NavMeshManager) RayCast(start alg.Vector3, end alg.Vector3) *RayCastResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := &RayCastResult{
		Hit:      false,
		Position: end,
		Normal:   alg.NewVector3(0.0, 1.0, 0.0),
		Distance: start.Distance(end),
		PolyId:   0,
	}
	mesh := m.getActiveMesh()
	if mesh == nil {
		return result
	}
	total := start.Distance(end)
	lastPos := start
	lastPolyId := mesh.FindPolygon(start, DefaultPolyRadius)
	if lastPolyId == 0 {
		result.Hit = true
		result.Position = start
		result.Distance = 0.0
		return result
	}
	stepCount := int(total/m.raycastStep) + 1
	for i := 1; i <= stepCount; i++ {
		t := float32(i) / float32(stepCount)
		samplePos := start.Add(end.Sub(start).Mulf(t))
		polyId := mesh.FindPolygon(samplePos, DefaultPolyRadius)
		if polyId == 0 {
			// 离开网格 命中点取最后一个有效采样
			result.Hit = true
			result.Position = lastPos
			result.Distance = start.Distance(lastPos)
			result.PolyId = lastPolyId
			return result
		}
		lastPos = samplePos
		lastPolyId = polyId
	}
	result.PolyId = lastPolyId
	return result
}

// GetRandomPosition 在区域内的多边形中等概率取一个 返回其中心
func (m *NavMeshManager) GetRandomPosition(center alg.Vector3, radius float32) (alg.Vector3, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mesh := m.getActiveMesh()
	if mesh == nil {
		return alg.Vector3{}, false
	}
	polyList := mesh.GetPolygonsInRegion(center, radius)
	if len(polyList) == 0 {
		return alg.Vector3{}, false
	}
	poly := polyList[rand.Intn(len(polyList))]
	return poly.Center, true
}

// GetPolygonsInRegion 区域多边形查询 worldId为0时取激活世界
func (m *NavMeshManager) GetPolygonsInRegion(worldId uint32, center alg.Vector3, radius float32) ([]*NavMeshPoly, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var mesh *NavMesh
	if worldId == 0 {
		mesh = m.getActiveMesh()
	} else {
		mesh = m.worldMap[worldId]
	}
	if mesh == nil {
		return nil, errors.New("nav mesh world not loaded")
	}
	return mesh.GetPolygonsInRegion(center, radius), nil
}
