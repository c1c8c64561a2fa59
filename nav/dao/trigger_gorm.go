package dao

import (
	"errors"

	"github.com/vmihailenco/msgpack/v5"
	"gorm.io/gorm"
)

type TriggerGorm struct {
	Name string `gorm:"column:name;primaryKey"`
	Data []byte `gorm:"column:data;type:blob"`
}

func (t TriggerGorm) TableName() string {
	return "trigger"
}

// WorldGorm 世界加载记录
type WorldGorm struct {
	WorldId  uint32 `gorm:"column:world_id;primaryKey"`
	FileName string `gorm:"column:file_name"`
	LoadTime int64  `gorm:"column:load_time"`
}

func (w WorldGorm) TableName() string {
	return "world"
}

func (d *Dao) InsertTriggerGorm(record *TriggerRecord) error {
	data, err := msgpack.Marshal(record)
	if err != nil {
		return err
	}
	return d.gormDb.Save(&TriggerGorm{
		Name: record.Name,
		Data: data,
	}).Error
}

func (d *Dao) DeleteTriggerGorm(name string) error {
	return d.gormDb.Delete(&TriggerGorm{Name: name}).Error
}

func (d *Dao) QueryAllTriggerListGorm() ([]*TriggerRecord, error) {
	rowList := make([]*TriggerGorm, 0)
	err := d.gormDb.Find(&rowList).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	recordList := make([]*TriggerRecord, 0, len(rowList))
	for _, row := range rowList {
		record := new(TriggerRecord)
		err = msgpack.Unmarshal(row.Data, record)
		if err != nil {
			return nil, err
		}
		recordList = append(recordList, record)
	}
	return recordList, nil
}

func (d *Dao) InsertWorldGorm(worldId uint32, fileName string, loadTime int64) error {
	return d.gormDb.Save(&WorldGorm{
		WorldId:  worldId,
		FileName: fileName,
		LoadTime: loadTime,
	}).Error
}

func (d *Dao) DeleteWorldGorm(worldId uint32) error {
	return d.gormDb.Delete(&WorldGorm{WorldId: worldId}).Error
}
