package dao

// TriggerRecord 触发器注册记录 以msgpack编码落库
type TriggerRecord struct {
	Name   string       `msgpack:"name"`
	Shape  string       `msgpack:"shape"`
	Center [3]float32   `msgpack:"center"`
	Radius float32      `msgpack:"radius"`
	Bottom float32      `msgpack:"bottom"`
	Top    float32      `msgpack:"top"`
	Points [][2]float32 `msgpack:"points"`
}

// InsertTrigger 写入触发器记录 同名覆盖
func (d *Dao) InsertTrigger(record *TriggerRecord) error {
	if d.mongoDb != nil {
		return d.InsertTriggerMongo(record)
	}
	return d.InsertTriggerGorm(record)
}

func (d *Dao) DeleteTrigger(name string) error {
	if d.mongoDb != nil {
		return d.DeleteTriggerMongo(name)
	}
	return d.DeleteTriggerGorm(name)
}

func (d *Dao) QueryAllTriggerList() ([]*TriggerRecord, error) {
	if d.mongoDb != nil {
		return d.QueryAllTriggerListMongo()
	}
	return d.QueryAllTriggerListGorm()
}
