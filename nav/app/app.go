package app

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pascaldisse/mxo-decompiled/common/config"
	"github.com/pascaldisse/mxo-decompiled/gdconf"
	"github.com/pascaldisse/mxo-decompiled/nav/controller"
	"github.com/pascaldisse/mxo-decompiled/nav/dao"
	"github.com/pascaldisse/mxo-decompiled/pkg/logger"
	"github.com/pascaldisse/mxo-decompiled/pkg/navmesh"
	"github.com/pascaldisse/mxo-decompiled/pkg/statsviz_serve"
)

var APPVERSION = "UNKNOWN"

// Run 导航服务主流程
func Run(ctx context.Context) error {
	cfg := config.GetConfig()
	logger.InitLogger(&logger.Config{
		AppName:      "nav",
		Level:        logger.ParseLevel(cfg.Logger.Level),
		TrackLine:    cfg.Logger.TrackLine,
		EnableFile:   cfg.Logger.EnableFile,
		FileMaxSize:  cfg.Logger.FileMaxSize,
		DisableColor: cfg.Logger.DisableColor,
	})
	defer logger.CloseLogger()
	logger.Info("nav server start, version: %v", APPVERSION)

	gdconf.InitGameDataConfig(cfg.Nav.DataPath)

	db, err := dao.NewDao()
	if err != nil {
		logger.Error("new dao error: %v", err)
		return err
	}
	defer db.Close()

	manager := navmesh.NewNavMeshManager(cfg.Nav.NodePoolSize)
	applyGameDataConfig(manager)
	manager.SetDrawMesh(cfg.Nav.EnableDrawMesh)
	loadMeshDir(manager, cfg.Nav.MeshPath)

	c := controller.NewController(manager, db)
	defer c.Close()
	c.RegisterLuaTriggers()
	c.RestoreTriggers()

	if cfg.Nav.EnableStatsviz {
		go func() {
			err := statsviz_serve.Serve(cfg.Nav.StatsvizAddr)
			if err != nil {
				logger.Error("statsviz serve error: %v", err)
			}
		}()
	}

	triggerTicker := time.NewTicker(time.Millisecond * time.Duration(cfg.Nav.TriggerTickMs))
	defer triggerTicker.Stop()
	exitChan := make(chan os.Signal, 1)
	signal.Notify(exitChan, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-triggerTicker.C:
			manager.GetTriggerManager().UpdateTriggers()
		case <-exitChan:
			logger.Info("nav server exit")
			return nil
		case <-ctx.Done():
			logger.Info("nav server exit")
			return nil
		}
	}
}

// applyGameDataConfig 把策划配置表落到引擎默认项上
func applyGameDataConfig(manager *navmesh.NavMeshManager) {
	pathFindConfig := gdconf.GetPathFindConfig()
	options := &navmesh.PathFindOptions{
		MaxIterations:         pathFindConfig.MaxIterations,
		MaxNodes:              pathFindConfig.MaxNodes,
		MaxDistance:           pathFindConfig.MaxDistance,
		StraightPathTolerance: pathFindConfig.StraightPathTolerance,
		OptimizePath:          pathFindConfig.OptimizePath,
		AreaFlags:             gdconf.GetDefaultIncludeMask(),
		ExcludedAreaFlags:     gdconf.GetDefaultExcludeMask(),
		Timeout:               time.Duration(pathFindConfig.TimeoutSec * float32(time.Second)),
		AreaCost:              gdconf.GetAreaCost,
	}
	manager.SetDefaultOptions(options)
	for name, value := range gdconf.GetNavParamMap() {
		manager.SetParameter(name, value)
	}
}

// loadMeshDir 加载网格目录下全部网格文件 世界id取文件内的mesh_id
func loadMeshDir(manager *navmesh.NavMeshManager, meshPath string) {
	entryList, err := os.ReadDir(meshPath)
	if err != nil {
		logger.Warn("open mesh dir error: %v, meshPath: %v", err, meshPath)
		return
	}
	count := 0
	for _, entry := range entryList {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) != ".bin" {
			continue
		}
		err = manager.LoadNavMesh(filepath.Join(meshPath, entry.Name()), 0)
		if err != nil {
			logger.Error("load nav mesh error: %v, fileName: %v", err, entry.Name())
			continue
		}
		count++
	}
	logger.Info("load mesh dir finish, count: %v", count)
}
