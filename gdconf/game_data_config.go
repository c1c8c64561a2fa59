package gdconf

import (
	"github.com/pascaldisse/mxo-decompiled/pkg/logger"
)

// 导航相关策划配置表加载

var CONF *GameDataConfig = nil

type GameDataConfig struct {
	dataPrefix string
	// 配置表
	AreaTypeDataMap      map[string]*AreaTypeData // 区域类型策略表
	NavParamMap          map[string]float32       // 命名参数表
	PathFindConfig       *PathFindConfig          // 寻路默认配置
	TriggerLuaConfigList []*TriggerLuaConfig      // 触发器定义
}

func InitGameDataConfig(dataPath string) {
	CONF = new(GameDataConfig)
	CONF.dataPrefix = dataPath + "/"
	CONF.load()
	logger.Info("load game data config finish")
}

func (g *GameDataConfig) load() {
	g.loadAreaTypeData()
	g.loadNavParamData()
	g.loadPathFindConfig()
	g.loadTriggerLuaConfig()
}
