package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

var CONF *Config = nil

type Config struct {
	HttpPort int32    `toml:"http_port"`
	Logger   Logger   `toml:"logger"`
	Database Database `toml:"database"`
	Redis    Redis    `toml:"redis"`
	Nav      Nav      `toml:"nav"`
}

type Logger struct {
	Level        string `toml:"level"`
	TrackLine    bool   `toml:"track_line"`
	EnableFile   bool   `toml:"enable_file"`
	FileMaxSize  int64  `toml:"file_max_size"`
	DisableColor bool   `toml:"disable_color"`
}

type Database struct {
	Url string `toml:"url"`
}

type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
}

// Nav 导航网格服务配置
type Nav struct {
	MeshPath       string `toml:"mesh_path"`        // 导航网格文件目录
	DataPath       string `toml:"data_path"`        // 策划配置表目录
	NodePoolSize   int32  `toml:"node_pool_size"`   // 寻路节点池容量
	TriggerTickMs  int32  `toml:"trigger_tick_ms"`  // 触发器检测间隔
	EnableStatsviz bool   `toml:"enable_statsviz"`  // 是否开启运行时诊断
	StatsvizAddr   string `toml:"statsviz_addr"`    // 运行时诊断地址
	PathCacheSec   int32  `toml:"path_cache_sec"`   // 寻路结果redis缓存时间 0为不缓存
	EnableDrawMesh bool   `toml:"enable_draw_mesh"` // 调试绘制开关初始值
}

func DefaultConfig() *Config {
	return &Config{
		HttpPort: 8080,
		Logger: Logger{
			Level:     "INFO",
			TrackLine: true,
		},
		Database: Database{
			Url: "sqlite://nav.db",
		},
		Nav: Nav{
			MeshPath:      "./NavMesh",
			DataPath:      "./NavData",
			NodePoolSize:  4096,
			TriggerTickMs: 100,
			StatsvizAddr:  "0.0.0.0:4567",
		},
	}
}

func InitConfig(filePath string) {
	fileData, err := os.ReadFile(filePath)
	if err != nil {
		panic(fmt.Sprintf("open config file error: %v, filePath: %v", err, filePath))
	}
	config := DefaultConfig()
	err = toml.Unmarshal(fileData, config)
	if err != nil {
		panic(fmt.Sprintf("parse config file error: %v, filePath: %v", err, filePath))
	}
	if config.Nav.NodePoolSize <= 0 {
		config.Nav.NodePoolSize = 4096
	}
	if config.Nav.TriggerTickMs <= 0 {
		config.Nav.TriggerTickMs = 100
	}
	CONF = config
}

func GetConfig() *Config {
	return CONF
}
