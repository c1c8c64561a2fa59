package gdconf

import (
	"os"

	"github.com/pascaldisse/mxo-decompiled/pkg/logger"

	"github.com/hjson/hjson-go/v4"
)

// 命名参数表 name -> float 外部系统按名读取 缺失时用调用方默认值

func (g *GameDataConfig) loadNavParamData() {
	g.NavParamMap = make(map[string]float32)
	fileData, err := os.ReadFile(g.dataPrefix + "nav_param.hjson")
	if err != nil {
		logger.Info("open nav param file error: %v", err)
		return
	}
	paramMap := make(map[string]float64)
	err = hjson.Unmarshal(fileData, &paramMap)
	if err != nil {
		logger.Error("parse nav param file error: %v", err)
		return
	}
	for name, value := range paramMap {
		g.NavParamMap[name] = float32(value)
	}
	logger.Info("NavParam Count: %v", len(g.NavParamMap))
}

// GetNavParam 按名读取参数 不存在时返回默认值
func GetNavParam(name string, defaultValue float32) float32 {
	value, exist := CONF.NavParamMap[name]
	if !exist {
		return defaultValue
	}
	return value
}

func GetNavParamMap() map[string]float32 {
	return CONF.NavParamMap
}
