package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pascaldisse/mxo-decompiled/common/config"
	"github.com/pascaldisse/mxo-decompiled/gdconf"
	"github.com/pascaldisse/mxo-decompiled/nav/dao"
	"github.com/pascaldisse/mxo-decompiled/pkg/alg"
	"github.com/pascaldisse/mxo-decompiled/pkg/logger"
	"github.com/pascaldisse/mxo-decompiled/pkg/navmesh"

	"github.com/gin-gonic/gin"
	"github.com/vmihailenco/msgpack/v5"
)

type FindPathReq struct {
	WorldId       uint32     `json:"world_id"`
	Start         [3]float32 `json:"start"`
	End           [3]float32 `json:"end"`
	MaxIterations int32      `json:"max_iterations"`
	MaxNodes      int32      `json:"max_nodes"`
	MaxDistance   float32    `json:"max_distance"`
	Tolerance     float32    `json:"tolerance"`
	NoOptimize    bool       `json:"no_optimize"`
	AreaFlags     uint8      `json:"area_flags"`
	ExcludedFlags uint8      `json:"excluded_flags"`
	TimeoutMs     int64      `json:"timeout_ms"`
}

type WayPointJson struct {
	Pos    [3]float32 `json:"pos"`
	PolyId uint32     `json:"poly_id"`
}

type FindPathRsp struct {
	Code         int32           `json:"code"`
	Result       string          `json:"result"`
	Distance     float32         `json:"distance"`
	Partial      bool            `json:"partial"`
	WayPointList []*WayPointJson `json:"way_point_list"`
}

func (c *Controller) findPath(context *gin.Context) {
	defer func() {
		if err := recover(); err != nil {
			logger.Error("find path panic, error: %v\n%v", err, logger.Stack())
			context.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
	}()
	req := new(FindPathReq)
	err := context.ShouldBindJSON(req)
	if err != nil {
		context.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cacheSec := config.GetConfig().Nav.PathCacheSec
	cacheKey := ""
	if cacheSec > 0 {
		cacheKey = fmt.Sprintf("PATH_%v_%v_%v", req.WorldId, req.Start, req.End)
		data := c.db.GetPathCache(cacheKey)
		if data != nil {
			rsp := new(FindPathRsp)
			err = msgpack.Unmarshal(data, rsp)
			if err == nil {
				context.JSON(http.StatusOK, rsp)
				return
			}
			logger.Error("unmarshal path cache error: %v", err)
		}
	}
	options := c.buildOptions(req)
	start := alg.NewVector3(req.Start[0], req.Start[1], req.Start[2])
	end := alg.NewVector3(req.End[0], req.End[1], req.End[2])
	path, result := c.manager.FindPathInWorld(req.WorldId, start, end, options)
	rsp := &FindPathRsp{
		Code:         int32(result),
		Result:       result.String(),
		Distance:     path.Distance(),
		Partial:      path.IsPartial(),
		WayPointList: make([]*WayPointJson, 0, len(path.GetWayPointList())),
	}
	for _, wayPoint := range path.GetWayPointList() {
		rsp.WayPointList = append(rsp.WayPointList, &WayPointJson{
			Pos:    [3]float32{wayPoint.Pos.X, wayPoint.Pos.Y, wayPoint.Pos.Z},
			PolyId: wayPoint.PolyId,
		})
	}
	// http接口不保留续算现场
	if path.CanContinue() {
		c.manager.ReleasePath(path)
	}
	if cacheSec > 0 && result == navmesh.PATHFIND_SUCCESS {
		data, err := msgpack.Marshal(rsp)
		if err != nil {
			logger.Error("marshal path cache error: %v", err)
		} else {
			c.db.SetPathCache(cacheKey, data, time.Second*time.Duration(cacheSec))
		}
	}
	context.JSON(http.StatusOK, rsp)
}

// buildOptions 以引擎默认配置为底应用请求覆盖项 零值字段不覆盖
func (c *Controller) buildOptions(req *FindPathReq) *navmesh.PathFindOptions {
	options := c.manager.GetDefaultOptions()
	if req.MaxIterations > 0 {
		options.MaxIterations = req.MaxIterations
	}
	if req.MaxNodes > 0 {
		options.MaxNodes = req.MaxNodes
	}
	if req.MaxDistance > 0.0 {
		options.MaxDistance = req.MaxDistance
	}
	if req.Tolerance > 0.0 {
		options.StraightPathTolerance = req.Tolerance
	}
	if req.NoOptimize {
		options.OptimizePath = false
	}
	if req.AreaFlags != 0 {
		options.AreaFlags = req.AreaFlags
	}
	if req.ExcludedFlags != 0 {
		options.ExcludedAreaFlags = req.ExcludedFlags
	}
	if req.TimeoutMs > 0 {
		options.Timeout = time.Millisecond * time.Duration(req.TimeoutMs)
	}
	options.AreaCost = gdconf.GetAreaCost
	return options
}

func parsePosQuery(context *gin.Context) (alg.Vector3, bool) {
	pos := alg.Vector3{}
	_, err := fmt.Sscanf(context.Query("x"), "%f", &pos.X)
	if err != nil {
		return pos, false
	}
	_, err = fmt.Sscanf(context.Query("y"), "%f", &pos.Y)
	if err != nil {
		return pos, false
	}
	_, err = fmt.Sscanf(context.Query("z"), "%f", &pos.Z)
	if err != nil {
		return pos, false
	}
	return pos, true
}

func (c *Controller) isValid(context *gin.Context) {
	pos, ok := parsePosQuery(context)
	if !ok {
		context.JSON(http.StatusBadRequest, gin.H{"error": "invalid pos"})
		return
	}
	valid, polyId := c.manager.IsPositionValid(pos)
	context.JSON(http.StatusOK, gin.H{"valid": valid, "poly_id": polyId})
}

func (c *Controller) isIndoors(context *gin.Context) {
	pos, ok := parsePosQuery(context)
	if !ok {
		context.JSON(http.StatusBadRequest, gin.H{"error": "invalid pos"})
		return
	}
	context.JSON(http.StatusOK, gin.H{"indoors": c.manager.IsIndoors(pos)})
}

func (c *Controller) nearestValidPosition(context *gin.Context) {
	pos, ok := parsePosQuery(context)
	if !ok {
		context.JSON(http.StatusBadRequest, gin.H{"error": "invalid pos"})
		return
	}
	maxDistance := navmesh.DefaultMaxDistance
	_, _ = fmt.Sscanf(context.Query("max_distance"), "%f", &maxDistance)
	result, found := c.manager.FindNearestValidPosition(pos, maxDistance)
	context.JSON(http.StatusOK, gin.H{
		"found": found,
		"pos":   [3]float32{result.X, result.Y, result.Z},
	})
}

func (c *Controller) randomPosition(context *gin.Context) {
	pos, ok := parsePosQuery(context)
	if !ok {
		context.JSON(http.StatusBadRequest, gin.H{"error": "invalid pos"})
		return
	}
	radius := float32(10.0)
	_, _ = fmt.Sscanf(context.Query("radius"), "%f", &radius)
	result, found := c.manager.GetRandomPosition(pos, radius)
	context.JSON(http.StatusOK, gin.H{
		"found": found,
		"pos":   [3]float32{result.X, result.Y, result.Z},
	})
}

type RayCastReq struct {
	Start [3]float32 `json:"start"`
	End   [3]float32 `json:"end"`
}

func (c *Controller) rayCast(context *gin.Context) {
	req := new(RayCastReq)
	err := context.ShouldBindJSON(req)
	if err != nil {
		context.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result := c.manager.RayCast(
		alg.NewVector3(req.Start[0], req.Start[1], req.Start[2]),
		alg.NewVector3(req.End[0], req.End[1], req.End[2]),
	)
	context.JSON(http.StatusOK, gin.H{
		"hit":      result.Hit,
		"pos":      [3]float32{result.Position.X, result.Position.Y, result.Position.Z},
		"normal":   [3]float32{result.Normal.X, result.Normal.Y, result.Normal.Z},
		"distance": result.Distance,
		"poly_id":  result.PolyId,
	})
}

type PolyJson struct {
	Id       uint32       `json:"id"`
	Vertices [][3]float32 `json:"vertices"`
	Center   [3]float32   `json:"center"`
	Area     uint8        `json:"area"`
	Flags    uint8        `json:"flags"`
}

func (c *Controller) polygonsInRegion(context *gin.Context) {
	pos, ok := parsePosQuery(context)
	if !ok {
		context.JSON(http.StatusBadRequest, gin.H{"error": "invalid pos"})
		return
	}
	radius := float32(100.0)
	_, _ = fmt.Sscanf(context.Query("radius"), "%f", &radius)
	worldId := uint32(0)
	_, _ = fmt.Sscanf(context.Query("world_id"), "%d", &worldId)
	polyList, err := c.manager.GetPolygonsInRegion(worldId, pos, radius)
	if err != nil {
		context.JSON(http.StatusOK, gin.H{"error": err.Error()})
		return
	}
	jsonList := make([]*PolyJson, 0, len(polyList))
	for _, poly := range polyList {
		polyJson := &PolyJson{
			Id:       poly.Id,
			Vertices: make([][3]float32, 0, len(poly.Vertices)),
			Center:   [3]float32{poly.Center.X, poly.Center.Y, poly.Center.Z},
			Area:     poly.Area,
			Flags:    poly.Flags,
		}
		for _, vertex := range poly.Vertices {
			polyJson.Vertices = append(polyJson.Vertices, [3]float32{vertex.X, vertex.Y, vertex.Z})
		}
		jsonList = append(jsonList, polyJson)
	}
	context.JSON(http.StatusOK, gin.H{"poly_list": jsonList})
}

func (c *Controller) getDrawMesh(context *gin.Context) {
	context.JSON(http.StatusOK, gin.H{"draw_mesh": c.manager.GetDrawMesh()})
}

func (c *Controller) setDrawMesh(context *gin.Context) {
	req := new(struct {
		Draw bool `json:"draw"`
	})
	err := context.ShouldBindJSON(req)
	if err != nil {
		context.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.manager.SetDrawMesh(req.Draw)
	context.JSON(http.StatusOK, gin.H{"draw_mesh": req.Draw})
}

func (c *Controller) getParam(context *gin.Context) {
	name := context.Query("name")
	if name == "" {
		context.JSON(http.StatusBadRequest, gin.H{"error": "invalid name"})
		return
	}
	value := c.manager.GetParameter(name, 0.0)
	context.JSON(http.StatusOK, gin.H{"name": name, "value": value})
}

func (c *Controller) setParam(context *gin.Context) {
	req := new(struct {
		Name  string  `json:"name"`
		Value float32 `json:"value"`
	})
	err := context.ShouldBindJSON(req)
	if err != nil || req.Name == "" {
		context.JSON(http.StatusBadRequest, gin.H{"error": "invalid param"})
		return
	}
	c.manager.SetParameter(req.Name, req.Value)
	context.JSON(http.StatusOK, gin.H{"name": req.Name, "value": req.Value})
}

func (c *Controller) loadWorld(context *gin.Context) {
	req := new(struct {
		FileName string `json:"file_name"`
		WorldId  uint32 `json:"world_id"`
	})
	err := context.ShouldBindJSON(req)
	if err != nil || req.FileName == "" {
		context.JSON(http.StatusBadRequest, gin.H{"error": "invalid req"})
		return
	}
	err = c.manager.LoadNavMesh(req.FileName, req.WorldId)
	if err != nil {
		context.JSON(http.StatusOK, gin.H{"error": err.Error()})
		return
	}
	err = c.db.InsertWorld(req.WorldId, req.FileName, time.Now().UnixMilli())
	if err != nil {
		logger.Error("insert world record error: %v", err)
	}
	context.JSON(http.StatusOK, gin.H{"ok": true})
}

func (c *Controller) unloadWorld(context *gin.Context) {
	req := new(struct {
		WorldId uint32 `json:"world_id"`
	})
	err := context.ShouldBindJSON(req)
	if err != nil {
		context.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ok := c.manager.UnloadNavMesh(req.WorldId)
	if ok {
		err = c.db.DeleteWorld(req.WorldId)
		if err != nil {
			logger.Error("delete world record error: %v", err)
		}
	}
	context.JSON(http.StatusOK, gin.H{"ok": ok})
}

type AddTriggerReq struct {
	Name   string       `json:"name"`
	Shape  string       `json:"shape"`
	Center [3]float32   `json:"center"`
	Radius float32      `json:"radius"`
	Bottom float32      `json:"bottom"`
	Top    float32      `json:"top"`
	Points [][2]float32 `json:"points"`
}

func (c *Controller) addTrigger(context *gin.Context) {
	req := new(AddTriggerReq)
	err := context.ShouldBindJSON(req)
	if err != nil || req.Name == "" {
		context.JSON(http.StatusBadRequest, gin.H{"error": "invalid req"})
		return
	}
	record := &dao.TriggerRecord{
		Name:   req.Name,
		Shape:  req.Shape,
		Center: req.Center,
		Radius: req.Radius,
		Bottom: req.Bottom,
		Top:    req.Top,
		Points: req.Points,
	}
	region := TriggerRecordToRegion(record)
	if region == nil {
		context.JSON(http.StatusBadRequest, gin.H{"error": "invalid trigger shape"})
		return
	}
	c.triggerMu.Lock()
	oldTriggerId, exist := c.triggerNameMap[req.Name]
	c.triggerMu.Unlock()
	if exist {
		// 同名触发器替换 先移除旧的
		c.manager.GetTriggerManager().RemoveTrigger(oldTriggerId)
	}
	triggerId := c.manager.GetTriggerManager().AddTrigger(region, c.newTriggerNotify(req.Name))
	c.triggerMu.Lock()
	c.triggerNameMap[req.Name] = triggerId
	c.triggerMu.Unlock()
	err = c.db.InsertTrigger(record)
	if err != nil {
		logger.Error("insert trigger record error: %v", err)
	}
	context.JSON(http.StatusOK, gin.H{"trigger_id": triggerId})
}

func (c *Controller) removeTrigger(context *gin.Context) {
	req := new(struct {
		Name string `json:"name"`
	})
	err := context.ShouldBindJSON(req)
	if err != nil || req.Name == "" {
		context.JSON(http.StatusBadRequest, gin.H{"error": "invalid req"})
		return
	}
	c.triggerMu.Lock()
	triggerId, exist := c.triggerNameMap[req.Name]
	if exist {
		delete(c.triggerNameMap, req.Name)
	}
	c.triggerMu.Unlock()
	if !exist {
		context.JSON(http.StatusOK, gin.H{"ok": false})
		return
	}
	c.manager.GetTriggerManager().RemoveTrigger(triggerId)
	err = c.db.DeleteTrigger(req.Name)
	if err != nil {
		logger.Error("delete trigger record error: %v", err)
	}
	context.JSON(http.StatusOK, gin.H{"ok": true})
}

func (c *Controller) updateAgent(context *gin.Context) {
	req := new(struct {
		AgentId uint32     `json:"agent_id"`
		Pos     [3]float32 `json:"pos"`
	})
	err := context.ShouldBindJSON(req)
	if err != nil {
		context.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.manager.GetTriggerManager().UpdateAgentPosition(req.AgentId, alg.NewVector3(req.Pos[0], req.Pos[1], req.Pos[2]))
	context.JSON(http.StatusOK, gin.H{"ok": true})
}

func (c *Controller) removeAgent(context *gin.Context) {
	req := new(struct {
		AgentId uint32 `json:"agent_id"`
	})
	err := context.ShouldBindJSON(req)
	if err != nil {
		context.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.manager.GetTriggerManager().RemoveAgent(req.AgentId)
	context.JSON(http.StatusOK, gin.H{"ok": true})
}
