package dao

import (
	"context"

	"github.com/vmihailenco/msgpack/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	TriggerCollection = "trigger"
	WorldCollection   = "world"
)

type triggerMongo struct {
	Name string `bson:"_id"`
	Data []byte `bson:"data"`
}

func (d *Dao) InsertTriggerMongo(record *TriggerRecord) error {
	data, err := msgpack.Marshal(record)
	if err != nil {
		return err
	}
	collection := d.mongoDb.Collection(TriggerCollection)
	_, err = collection.UpdateOne(context.TODO(),
		bson.D{{Key: "_id", Value: record.Name}},
		bson.D{{Key: "$set", Value: triggerMongo{Name: record.Name, Data: data}}},
		options.Update().SetUpsert(true))
	return err
}

func (d *Dao) DeleteTriggerMongo(name string) error {
	collection := d.mongoDb.Collection(TriggerCollection)
	_, err := collection.DeleteOne(context.TODO(), bson.D{{Key: "_id", Value: name}})
	return err
}

func (d *Dao) QueryAllTriggerListMongo() ([]*TriggerRecord, error) {
	collection := d.mongoDb.Collection(TriggerCollection)
	cursor, err := collection.Find(context.TODO(), bson.D{})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(context.TODO())
	}()
	recordList := make([]*TriggerRecord, 0)
	for cursor.Next(context.TODO()) {
		row := new(triggerMongo)
		err = cursor.Decode(row)
		if err != nil {
			return nil, err
		}
		record := new(TriggerRecord)
		err = msgpack.Unmarshal(row.Data, record)
		if err != nil {
			return nil, err
		}
		recordList = append(recordList, record)
	}
	return recordList, nil
}

type worldMongo struct {
	WorldId  uint32 `bson:"_id"`
	FileName string `bson:"file_name"`
	LoadTime int64  `bson:"load_time"`
}

func (d *Dao) InsertWorldMongo(worldId uint32, fileName string, loadTime int64) error {
	collection := d.mongoDb.Collection(WorldCollection)
	_, err := collection.UpdateOne(context.TODO(),
		bson.D{{Key: "_id", Value: worldId}},
		bson.D{{Key: "$set", Value: worldMongo{WorldId: worldId, FileName: fileName, LoadTime: loadTime}}},
		options.Update().SetUpsert(true))
	return err
}

func (d *Dao) DeleteWorldMongo(worldId uint32) error {
	collection := d.mongoDb.Collection(WorldCollection)
	_, err := collection.DeleteOne(context.TODO(), bson.D{{Key: "_id", Value: worldId}})
	return err
}
