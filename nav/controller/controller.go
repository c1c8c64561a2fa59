package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/pascaldisse/mxo-decompiled/common/config"
	"github.com/pascaldisse/mxo-decompiled/gdconf"
	"github.com/pascaldisse/mxo-decompiled/nav/dao"
	"github.com/pascaldisse/mxo-decompiled/pkg/alg"
	"github.com/pascaldisse/mxo-decompiled/pkg/logger"
	"github.com/pascaldisse/mxo-decompiled/pkg/navmesh"

	"github.com/gin-gonic/gin"
)

// Controller 导航服务http接口
type Controller struct {
	manager *navmesh.NavMeshManager
	db      *dao.Dao
	server  *http.Server
	// 触发器名到运行期id的映射 持久化以名字为键
	triggerMu      sync.Mutex
	triggerNameMap map[string]uint32
}

func NewController(manager *navmesh.NavMeshManager, db *dao.Dao) *Controller {
	c := new(Controller)
	c.manager = manager
	c.db = db
	c.triggerNameMap = make(map[string]uint32)
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	c.registerRouter(engine)
	addr := fmt.Sprintf(":%v", config.GetConfig().HttpPort)
	c.server = &http.Server{Addr: addr, Handler: engine}
	go func() {
		err := c.server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.Error("http server listen error: %v", err)
		}
	}()
	logger.Info("http server start, addr: %v", addr)
	return c
}

func (c *Controller) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	err := c.server.Shutdown(ctx)
	if err != nil {
		logger.Error("http server shutdown error: %v", err)
	}
}

func (c *Controller) registerRouter(engine *gin.Engine) {
	engine.POST("/nav/find_path", c.findPath)
	engine.GET("/nav/is_valid", c.isValid)
	engine.GET("/nav/is_indoors", c.isIndoors)
	engine.GET("/nav/nearest", c.nearestValidPosition)
	engine.GET("/nav/random", c.randomPosition)
	engine.POST("/nav/raycast", c.rayCast)
	engine.GET("/nav/region", c.polygonsInRegion)
	engine.GET("/nav/draw_mesh", c.getDrawMesh)
	engine.POST("/nav/draw_mesh", c.setDrawMesh)
	engine.GET("/nav/param", c.getParam)
	engine.POST("/nav/param", c.setParam)
	engine.POST("/nav/world/load", c.loadWorld)
	engine.POST("/nav/world/unload", c.unloadWorld)
	engine.POST("/nav/trigger/add", c.addTrigger)
	engine.POST("/nav/trigger/remove", c.removeTrigger)
	engine.POST("/nav/agent/update", c.updateAgent)
	engine.POST("/nav/agent/remove", c.removeAgent)
}

// RegisterLuaTriggers 注册策划配置表里的触发器 不落库 每次启动从配置表重建
func (c *Controller) RegisterLuaTriggers() {
	for _, triggerConfig := range gdconf.GetTriggerLuaConfigList() {
		var region navmesh.TriggerRegion = nil
		switch triggerConfig.Shape {
		case gdconf.TriggerShapeSphere:
			region = &navmesh.SphereRegion{
				Center: alg.NewVector3(triggerConfig.Center.X, triggerConfig.Center.Y, triggerConfig.Center.Z),
				Radius: triggerConfig.Radius,
			}
		case gdconf.TriggerShapePolygon:
			if len(triggerConfig.Points) < 3 {
				logger.Error("invalid trigger polygon, name: %v", triggerConfig.Name)
				continue
			}
			points := make([]*alg.Vector2, 0, len(triggerConfig.Points))
			for _, point := range triggerConfig.Points {
				points = append(points, &alg.Vector2{X: point.X, Y: point.Z})
			}
			region = &navmesh.PolygonRegion{
				Points: points,
				Bottom: triggerConfig.Bottom,
				Top:    triggerConfig.Top,
			}
		default:
			logger.Error("unknown trigger shape: %v, name: %v", triggerConfig.Shape, triggerConfig.Name)
			continue
		}
		triggerId := c.manager.GetTriggerManager().AddTrigger(region, c.newTriggerNotify(triggerConfig.Name))
		c.triggerMu.Lock()
		c.triggerNameMap[triggerConfig.Name] = triggerId
		c.triggerMu.Unlock()
	}
	logger.Info("register lua trigger finish, count: %v", len(gdconf.GetTriggerLuaConfigList()))
}

// RestoreTriggers 服务启动时恢复落库的触发器
func (c *Controller) RestoreTriggers() {
	recordList, err := c.db.QueryAllTriggerList()
	if err != nil {
		logger.Error("query trigger list error: %v", err)
		return
	}
	for _, record := range recordList {
		region := TriggerRecordToRegion(record)
		if region == nil {
			logger.Error("invalid trigger record, name: %v", record.Name)
			continue
		}
		triggerId := c.manager.GetTriggerManager().AddTrigger(region, c.newTriggerNotify(record.Name))
		c.triggerMu.Lock()
		c.triggerNameMap[record.Name] = triggerId
		c.triggerMu.Unlock()
	}
	logger.Info("restore trigger finish, count: %v", len(recordList))
}

// TriggerRecordToRegion 触发器记录转区域判定对象
func TriggerRecordToRegion(record *dao.TriggerRecord) navmesh.TriggerRegion {
	switch record.Shape {
	case "sphere":
		return &navmesh.SphereRegion{
			Center: alg.NewVector3(record.Center[0], record.Center[1], record.Center[2]),
			Radius: record.Radius,
		}
	case "polygon":
		if len(record.Points) < 3 {
			return nil
		}
		points := make([]*alg.Vector2, 0, len(record.Points))
		for _, point := range record.Points {
			points = append(points, &alg.Vector2{X: point[0], Y: point[1]})
		}
		return &navmesh.PolygonRegion{
			Points: points,
			Bottom: record.Bottom,
			Top:    record.Top,
		}
	default:
		return nil
	}
}

// TriggerEvent 触发器进出事件 写入redis事件流
type TriggerEvent struct {
	TriggerId   uint32 `json:"trigger_id"`
	TriggerName string `json:"trigger_name"`
	AgentId     uint32 `json:"agent_id"`
	Enter       bool   `json:"enter"`
	Time        int64  `json:"time"`
}

type triggerNotify struct {
	db   *dao.Dao
	name string
}

func (c *Controller) newTriggerNotify(name string) navmesh.TriggerNotify {
	return &triggerNotify{db: c.db, name: name}
}

func (t *triggerNotify) OnTriggerEnter(triggerId uint32, agentId uint32) {
	logger.Debug("trigger enter, triggerId: %v, name: %v, agentId: %v", triggerId, t.name, agentId)
	t.pushEvent(triggerId, agentId, true)
}

func (t *triggerNotify) OnTriggerExit(triggerId uint32, agentId uint32) {
	logger.Debug("trigger exit, triggerId: %v, name: %v, agentId: %v", triggerId, t.name, agentId)
	t.pushEvent(triggerId, agentId, false)
}

func (t *triggerNotify) pushEvent(triggerId uint32, agentId uint32, enter bool) {
	event := &TriggerEvent{
		TriggerId:   triggerId,
		TriggerName: t.name,
		AgentId:     agentId,
		Enter:       enter,
		Time:        time.Now().UnixMilli(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("marshal trigger event error: %v", err)
		return
	}
	t.db.PushTriggerEvent(data)
}
