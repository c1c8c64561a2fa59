package gdconf

import (
	"os"

	"github.com/pascaldisse/mxo-decompiled/pkg/logger"

	"github.com/hjson/hjson-go/v4"
)

// PathFindConfig 寻路默认配置 引擎级默认值 单次查询可覆盖
type PathFindConfig struct {
	MaxIterations         int32   `json:"max_iterations"`
	MaxNodes              int32   `json:"max_nodes"`
	MaxDistance           float32 `json:"max_distance"`
	StraightPathTolerance float32 `json:"straight_path_tolerance"`
	OptimizePath          bool    `json:"optimize_path"`
	TimeoutSec            float32 `json:"timeout_sec"`
}

func defaultPathFindConfig() *PathFindConfig {
	return &PathFindConfig{
		MaxIterations:         2000,
		MaxNodes:              4096,
		MaxDistance:           1000.0,
		StraightPathTolerance: 0.1,
		OptimizePath:          true,
		TimeoutSec:            1.0,
	}
}

func (g *GameDataConfig) loadPathFindConfig() {
	g.PathFindConfig = defaultPathFindConfig()
	fileData, err := os.ReadFile(g.dataPrefix + "pathfind_option.hjson")
	if err != nil {
		logger.Info("open pathfind option file error: %v, use default", err)
		return
	}
	err = hjson.Unmarshal(fileData, g.PathFindConfig)
	if err != nil {
		logger.Error("parse pathfind option file error: %v, use default", err)
		g.PathFindConfig = defaultPathFindConfig()
		return
	}
	logger.Info("PathFindConfig: %+v", g.PathFindConfig)
}

func GetPathFindConfig() *PathFindConfig {
	return CONF.PathFindConfig
}
