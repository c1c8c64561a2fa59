package gdconf

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitGameDataConfigBuiltin(t *testing.T) {
	// 配置表缺失时使用内建表
	InitGameDataConfig(t.TempDir())
	if GetDefaultIncludeMask() != 0x01 {
		t.Fatalf("default include mask error, got: 0x%02x", GetDefaultIncludeMask())
	}
	if GetDefaultExcludeMask() != 0x40 {
		t.Fatalf("default exclude mask error, got: 0x%02x", GetDefaultExcludeMask())
	}
	if GetAreaCost(0x01) != 1.0 {
		t.Fatalf("builtin area cost error, got: %v", GetAreaCost(0x01))
	}
	if GetNavParam("AI_LogNavMeshPathfinding", 0.0) != 0.0 {
		t.Fatal("missing param should return default")
	}
	pathFindConfig := GetPathFindConfig()
	if pathFindConfig.MaxIterations != 2000 || pathFindConfig.MaxNodes != 4096 {
		t.Fatalf("default pathfind config error, got: %+v", pathFindConfig)
	}
	if len(GetTriggerLuaConfigList()) != 0 {
		t.Fatalf("trigger list should be empty, got: %v", len(GetTriggerLuaConfigList()))
	}
}

func TestInitGameDataConfigFromFiles(t *testing.T) {
	dataPath := t.TempDir()
	writeFile(t, filepath.Join(dataPath, "area_type.hjson"), `
[
    { name: "walkable", bit: 1, default_include: true },
    { name: "water", bit: 4, default_include: true, cost_expr: "2*3" },
    { name: "no_navigation", bit: 64, default_exclude: true },
]
`)
	writeFile(t, filepath.Join(dataPath, "nav_param.hjson"), `
{
    AI_LogNavMeshPathfinding: 1
    AI_PathfindBudget: 500
}
`)
	writeFile(t, filepath.Join(dataPath, "pathfind_option.hjson"), `
{
    max_iterations: 100
    max_nodes: 256
    max_distance: 50
    straight_path_tolerance: 0.5
    optimize_path: true
    timeout_sec: 2
}
`)
	InitGameDataConfig(dataPath)
	if GetDefaultIncludeMask() != 0x05 {
		t.Fatalf("include mask error, got: 0x%02x", GetDefaultIncludeMask())
	}
	if GetDefaultExcludeMask() != 0x40 {
		t.Fatalf("exclude mask error, got: 0x%02x", GetDefaultExcludeMask())
	}
	// 表达式求值的通行代价 取命中区域的最大值
	if GetAreaCost(0x04) != 6.0 {
		t.Fatalf("area cost expr error, got: %v", GetAreaCost(0x04))
	}
	if GetAreaCost(0x05) != 6.0 {
		t.Fatalf("combined area cost error, got: %v", GetAreaCost(0x05))
	}
	if GetNavParam("AI_PathfindBudget", 0.0) != 500.0 {
		t.Fatalf("nav param error, got: %v", GetNavParam("AI_PathfindBudget", 0.0))
	}
	pathFindConfig := GetPathFindConfig()
	if pathFindConfig.MaxIterations != 100 || pathFindConfig.MaxDistance != 50.0 {
		t.Fatalf("pathfind config error, got: %+v", pathFindConfig)
	}
}

func TestInitGameDataConfigTriggerLua(t *testing.T) {
	dataPath := t.TempDir()
	triggerPath := filepath.Join(dataPath, "trigger")
	err := os.MkdirAll(triggerPath, 0755)
	if err != nil {
		t.Fatalf("mkdir error: %v", err)
	}
	writeFile(t, filepath.Join(triggerPath, "zone.lua"), `
triggers = {
    { name = "dock_enter", shape = "sphere", center = { x = 1, y = 2, z = 3 }, radius = 5.0 },
}
`)
	InitGameDataConfig(dataPath)
	configList := GetTriggerLuaConfigList()
	if len(configList) != 1 {
		t.Fatalf("trigger config count error, got: %v", len(configList))
	}
	if configList[0].Name != "dock_enter" || configList[0].Center.Z != 3.0 {
		t.Fatalf("trigger config error, got: %+v", configList[0])
	}
}

func writeFile(t *testing.T, fileName string, data string) {
	err := os.WriteFile(fileName, []byte(data), 0644)
	if err != nil {
		t.Fatalf("write file error: %v", err)
	}
}
