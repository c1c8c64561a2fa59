package gdconf

import (
	"os"

	"github.com/pascaldisse/mxo-decompiled/pkg/logger"

	"github.com/dengsgo/math-engine/engine"
	"github.com/hjson/hjson-go/v4"
)

// AreaTypeData 区域类型策略表
// 区域位语义来自配置而非硬编码 通行代价支持表达式
type AreaTypeData struct {
	Name           string  `json:"name"`            // 区域名
	Bit            uint8   `json:"bit"`             // 区域位
	DefaultInclude bool    `json:"default_include"` // 默认包含掩码是否含此区域
	DefaultExclude bool    `json:"default_exclude"` // 默认排除掩码是否含此区域
	CostExpr       string  `json:"cost_expr"`       // 通行代价表达式 为空时取1.0
	Cost           float32 `json:"-"`               // 表达式求值结果
}

// 配置缺失时的内建区域表
func builtinAreaTypeList() []*AreaTypeData {
	return []*AreaTypeData{
		{Name: "walkable", Bit: 0x01, DefaultInclude: true},
		{Name: "jump", Bit: 0x02},
		{Name: "water", Bit: 0x04},
		{Name: "door", Bit: 0x08},
		{Name: "stairs", Bit: 0x10},
		{Name: "indoors", Bit: 0x20},
		{Name: "no_navigation", Bit: 0x40, DefaultExclude: true},
		{Name: "restricted", Bit: 0x80},
	}
}

func (g *GameDataConfig) loadAreaTypeData() {
	g.AreaTypeDataMap = make(map[string]*AreaTypeData)
	areaTypeDataList := make([]*AreaTypeData, 0)
	fileData, err := os.ReadFile(g.dataPrefix + "area_type.hjson")
	if err != nil {
		logger.Info("open area type file error: %v, use builtin table", err)
		areaTypeDataList = builtinAreaTypeList()
	} else {
		err = hjson.Unmarshal(fileData, &areaTypeDataList)
		if err != nil {
			logger.Error("parse area type file error: %v, use builtin table", err)
			areaTypeDataList = builtinAreaTypeList()
		}
	}
	for _, areaTypeData := range areaTypeDataList {
		areaTypeData.Cost = 1.0
		if areaTypeData.CostExpr != "" {
			r, err := engine.ParseAndExec(areaTypeData.CostExpr)
			if err != nil {
				logger.Error("calc area cost expr error: %v, name: %v", err, areaTypeData.Name)
			} else if r > 0.0 {
				areaTypeData.Cost = float32(r)
			}
		}
		g.AreaTypeDataMap[areaTypeData.Name] = areaTypeData
	}
	logger.Info("AreaTypeData Count: %v", len(g.AreaTypeDataMap))
}

func GetAreaTypeDataMap() map[string]*AreaTypeData {
	return CONF.AreaTypeDataMap
}

// GetDefaultIncludeMask 默认包含掩码
func GetDefaultIncludeMask() uint8 {
	mask := uint8(0)
	for _, areaTypeData := range CONF.AreaTypeDataMap {
		if areaTypeData.DefaultInclude {
			mask |= areaTypeData.Bit
		}
	}
	return mask
}

// GetDefaultExcludeMask 默认排除掩码
func GetDefaultExcludeMask() uint8 {
	mask := uint8(0)
	for _, areaTypeData := range CONF.AreaTypeDataMap {
		if areaTypeData.DefaultExclude {
			mask |= areaTypeData.Bit
		}
	}
	return mask
}

// GetAreaCost 某区域位组合的通行代价 取命中区域中的最大代价
func GetAreaCost(area uint8) float32 {
	cost := float32(1.0)
	for _, areaTypeData := range CONF.AreaTypeDataMap {
		if area&areaTypeData.Bit != 0 && areaTypeData.Cost > cost {
			cost = areaTypeData.Cost
		}
	}
	return cost
}
