package navmesh

import (
	"errors"

	"github.com/pascaldisse/mxo-decompiled/pkg/alg"
)

// NavMesh 单个世界的导航网格 持有全部多边形及其邻接关系
type NavMesh struct {
	polyMap     map[uint32]*NavMeshPoly
	checkBottom float32 // 高度判定下界 相对多边形参考高度
	checkTop    float32 // 高度判定上界
}

func NewNavMesh() *NavMesh {
	m := new(NavMesh)
	m.polyMap = make(map[uint32]*NavMeshPoly)
	m.checkBottom = DefaultCheckBottom
	m.checkTop = DefaultCheckTop
	return m
}

// LoadData 载入多边形集合 id重复视为数据损坏
func (m *NavMesh) LoadData(polyList []*NavMeshPoly) error {
	polyMap := make(map[uint32]*NavMeshPoly, len(polyList))
	for _, poly := range polyList {
		_, exist := polyMap[poly.Id]
		if exist {
			return errors.New("duplicate polygon id")
		}
		polyMap[poly.Id] = poly
	}
	m.polyMap = polyMap
	return nil
}

func (m *NavMesh) SetHeightCheck(checkBottom float32, checkTop float32) {
	m.checkBottom = checkBottom
	m.checkTop = checkTop
}

func (m *NavMesh) PolyCount() int {
	return len(m.polyMap)
}

func (m *NavMesh) GetPolygon(polyId uint32) *NavMeshPoly {
	return m.polyMap[polyId]
}

// IsPosInPoly 粗粒度包含测试 高度带内且水平投影落在多边形中心圆盘内
func (m *NavMesh) IsPosInPoly(pos alg.Vector3, poly *NavMeshPoly) bool {
	if pos.Y < poly.Height+m.checkBottom || pos.Y > poly.Height+m.checkTop {
		return false
	}
	return pos.DistanceSquared2D(poly.Center) <= DefaultPolyRadius*DefaultPolyRadius
}

// FindPolygon 查找包含某位置的多边形 找不到时返回maxDistance内中心最近者 没有则返回0
func (m *NavMesh) FindPolygon(pos alg.Vector3, maxDistance float32) uint32 {
	bestPolyId := uint32(0)
	bestDistSq := maxDistance * maxDistance
	for polyId, poly := range m.polyMap {
		if pos.Y < poly.Height+m.checkBottom || pos.Y > poly.Height+m.checkTop {
			continue
		}
		distSq := pos.DistanceSquared2D(poly.Center)
		if distSq >= bestDistSq {
			continue
		}
		if m.IsPosInPoly(pos, poly) {
			return polyId
		}
		bestPolyId = polyId
		bestDistSq = distSq
	}
	return bestPolyId
}

// GetPolygonsInRegion 获取中心落在半径内的全部多边形
func (m *NavMesh) GetPolygonsInRegion(center alg.Vector3, radius float32) []*NavMeshPoly {
	radiusSq := radius * radius
	polyList := make([]*NavMeshPoly, 0)
	for _, poly := range m.polyMap {
		if poly.Center.DistanceSquared(center) <= radiusSq {
			polyList = append(polyList, poly)
		}
	}
	return polyList
}
