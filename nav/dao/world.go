package dao

// 世界加载记录 便于重启后追溯网格来源

func (d *Dao) InsertWorld(worldId uint32, fileName string, loadTime int64) error {
	if d.mongoDb != nil {
		return d.InsertWorldMongo(worldId, fileName, loadTime)
	}
	return d.InsertWorldGorm(worldId, fileName, loadTime)
}

func (d *Dao) DeleteWorld(worldId uint32) error {
	if d.mongoDb != nil {
		return d.DeleteWorldMongo(worldId)
	}
	return d.DeleteWorldGorm(worldId)
}
