package gdconf

import (
	"os"
	"strings"

	"github.com/pascaldisse/mxo-decompiled/pkg/logger"

	lua "github.com/yuin/gopher-lua"
)

// 触发器定义以lua文件下发 每个文件里是一个triggers表
//
// triggers = {
//     { name = "dock_enter", shape = "sphere", center = { x = 0, y = 0, z = 0 }, radius = 5.0 },
//     { name = "club_floor", shape = "polygon", bottom = -2.0, top = 8.0,
//       points = { { x = 0, z = 0 }, { x = 10, z = 0 }, { x = 10, z = 10 }, { x = 0, z = 10 } } },
// }

const (
	TriggerShapeSphere  = "sphere"
	TriggerShapePolygon = "polygon"
)

type TriggerPoint struct {
	X float32
	Z float32
}

type TriggerVector struct {
	X float32
	Y float32
	Z float32
}

// TriggerLuaConfig 单个触发器定义
type TriggerLuaConfig struct {
	Name   string
	Shape  string
	Center TriggerVector
	Radius float32
	Bottom float32
	Top    float32
	Points []*TriggerPoint
}

func (g *GameDataConfig) loadTriggerLuaConfig() {
	g.TriggerLuaConfigList = make([]*TriggerLuaConfig, 0)
	triggerLuaPrefix := g.dataPrefix + "trigger/"
	fileList, err := os.ReadDir(triggerLuaPrefix)
	if err != nil {
		logger.Info("open trigger lua dir error: %v", err)
		return
	}
	for _, file := range fileList {
		fileName := file.Name()
		if file.IsDir() || !strings.HasSuffix(fileName, ".lua") {
			continue
		}
		fileData, err := os.ReadFile(triggerLuaPrefix + fileName)
		if err != nil {
			logger.Error("open trigger lua file error: %v, fileName: %v", err, fileName)
			continue
		}
		configList := ParseTriggerLua(string(fileData))
		if configList == nil {
			logger.Error("parse trigger lua file error, fileName: %v", fileName)
			continue
		}
		g.TriggerLuaConfigList = append(g.TriggerLuaConfigList, configList...)
	}
	logger.Info("TriggerLuaConfig Count: %v", len(g.TriggerLuaConfigList))
}

// ParseTriggerLua 解析触发器lua脚本 解析失败返回nil
func ParseTriggerLua(luaStr string) []*TriggerLuaConfig {
	luaState := lua.NewState(lua.Options{
		RegistrySize:     128,
		CallStackSize:    64,
		SkipOpenLibs:     true,
		IncludeGoStackTrace: false,
	})
	defer luaState.Close()
	err := luaState.DoString(luaStr)
	if err != nil {
		logger.Error("lua script exec error: %v", err)
		return nil
	}
	triggersValue := luaState.GetGlobal("triggers")
	triggersTable, ok := triggersValue.(*lua.LTable)
	if !ok {
		return nil
	}
	configList := make([]*TriggerLuaConfig, 0)
	triggersTable.ForEach(func(_ lua.LValue, value lua.LValue) {
		triggerTable, ok := value.(*lua.LTable)
		if !ok {
			return
		}
		config := new(TriggerLuaConfig)
		config.Name = luaTableGetString(triggerTable, "name")
		config.Shape = luaTableGetString(triggerTable, "shape")
		config.Radius = luaTableGetFloat(triggerTable, "radius")
		config.Bottom = luaTableGetFloat(triggerTable, "bottom")
		config.Top = luaTableGetFloat(triggerTable, "top")
		centerTable, ok := triggerTable.RawGetString("center").(*lua.LTable)
		if ok {
			config.Center = TriggerVector{
				X: luaTableGetFloat(centerTable, "x"),
				Y: luaTableGetFloat(centerTable, "y"),
				Z: luaTableGetFloat(centerTable, "z"),
			}
		}
		pointsTable, ok := triggerTable.RawGetString("points").(*lua.LTable)
		if ok {
			pointsTable.ForEach(func(_ lua.LValue, pointValue lua.LValue) {
				pointTable, ok := pointValue.(*lua.LTable)
				if !ok {
					return
				}
				config.Points = append(config.Points, &TriggerPoint{
					X: luaTableGetFloat(pointTable, "x"),
					Z: luaTableGetFloat(pointTable, "z"),
				})
			})
		}
		if config.Shape != TriggerShapeSphere && config.Shape != TriggerShapePolygon {
			logger.Error("unknown trigger shape: %v, name: %v", config.Shape, config.Name)
			return
		}
		configList = append(configList, config)
	})
	return configList
}

func GetTriggerLuaConfigList() []*TriggerLuaConfig {
	return CONF.TriggerLuaConfigList
}

func luaTableGetString(table *lua.LTable, key string) string {
	value, ok := table.RawGetString(key).(lua.LString)
	if !ok {
		return ""
	}
	return string(value)
}

func luaTableGetFloat(table *lua.LTable, key string) float32 {
	value, ok := table.RawGetString(key).(lua.LNumber)
	if !ok {
		return 0.0
	}
	return float32(value)
}
