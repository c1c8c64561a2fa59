package navmesh

import (
	"time"

	"github.com/pascaldisse/mxo-decompiled/pkg/alg"
)

// 多边形区域类型位
const (
	AREA_WALKABLE      uint8 = 0x01 // 普通可行走区域
	AREA_JUMP          uint8 = 0x02 // 需要跳跃
	AREA_WATER         uint8 = 0x04 // 水面
	AREA_DOOR          uint8 = 0x08 // 门
	AREA_STAIRS        uint8 = 0x10 // 楼梯
	AREA_INDOORS       uint8 = 0x20 // 室内
	AREA_NO_NAVIGATION uint8 = 0x40 // 禁止导航
	AREA_RESTRICTED    uint8 = 0x80 // 受限区域
)

// PathFindResult 寻路结果码
type PathFindResult int32

const (
	PATHFIND_SUCCESS       PathFindResult = 0 // 寻路成功
	PATHFIND_PARTIAL       PathFindResult = 1 // 迭代预算耗尽 返回部分路径
	PATHFIND_NO_PATH       PathFindResult = 2 // 无可达路径
	PATHFIND_INVALID_START PathFindResult = 3 // 起点不在导航网格上
	PATHFIND_INVALID_END   PathFindResult = 4 // 终点不在导航网格上
	PATHFIND_OUT_OF_NODES  PathFindResult = 5 // 节点池耗尽
	PATHFIND_TIMEOUT       PathFindResult = 6 // 超时 返回部分路径
	PATHFIND_ERROR         PathFindResult = 7 // 内部错误
)

func (r PathFindResult) String() string {
	switch r {
	case PATHFIND_SUCCESS:
		return "SUCCESS"
	case PATHFIND_PARTIAL:
		return "PARTIAL"
	case PATHFIND_NO_PATH:
		return "NO_PATH"
	case PATHFIND_INVALID_START:
		return "INVALID_START"
	case PATHFIND_INVALID_END:
		return "INVALID_END"
	case PATHFIND_OUT_OF_NODES:
		return "OUT_OF_NODES"
	case PATHFIND_TIMEOUT:
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

const (
	DefaultMaxIterations  int32   = 2000
	DefaultMaxNodes       int32   = 4096
	DefaultMaxDistance    float32 = 1000.0
	DefaultStraightTol    float32 = 0.1
	DefaultTimeout                = time.Second
	DefaultNodePoolSize   int32   = 4096
	DefaultPolyRadius     float32 = 2.0
	DefaultCheckBottom    float32 = -50.0
	DefaultCheckTop       float32 = 50.0
	timeoutCheckInterval  int32   = 64
)

// PathFindOptions 单次寻路查询的配置项
type PathFindOptions struct {
	MaxIterations         int32                    // 最大迭代次数
	MaxNodes              int32                    // 单次查询最大节点数
	MaxDistance           float32                  // 最大路径长度
	StraightPathTolerance float32                  // 路径平滑容差
	OptimizePath          bool                     // 是否平滑路径
	AreaFlags             uint8                    // 包含区域掩码
	ExcludedAreaFlags     uint8                    // 排除区域掩码
	Timeout               time.Duration            // 单次查询最大耗时
	AreaCost              func(area uint8) float32 // 区域通行代价 为nil时代价恒为1.0
}

func DefaultPathFindOptions() *PathFindOptions {
	return &PathFindOptions{
		MaxIterations:         DefaultMaxIterations,
		MaxNodes:              DefaultMaxNodes,
		MaxDistance:           DefaultMaxDistance,
		StraightPathTolerance: DefaultStraightTol,
		OptimizePath:          true,
		AreaFlags:             AREA_WALKABLE,
		ExcludedAreaFlags:     AREA_NO_NAVIGATION,
		Timeout:               DefaultTimeout,
	}
}

// NavMeshPoly 导航网格多边形 寻路图的基本单元
type NavMeshPoly struct {
	Id        uint32        // 多边形id 加载时分配 世界内唯一
	Vertices  []alg.Vector3 // 顶点序列
	Center    alg.Vector3   // 中心点
	Height    float32       // 参考高度
	Neighbors []uint32      // 相邻多边形id列表
	Area      uint8         // 区域类型位
	Flags     uint8         // 网格自定义标记位
}

// RayCastResult 射线检测结果
type RayCastResult struct {
	Hit      bool
	Position alg.Vector3
	Normal   alg.Vector3
	Distance float32
	PolyId   uint32
}
