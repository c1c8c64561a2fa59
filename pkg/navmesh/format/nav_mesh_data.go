package format

import (
	"errors"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// 导航网格文件为msgpack编码的NavMeshData整体

type Vector3 struct {
	X float32 `msgpack:"x"`
	Y float32 `msgpack:"y"`
	Z float32 `msgpack:"z"`
}

// PolygonData 多边形数据
type PolygonData struct {
	Id        uint32     `msgpack:"id"`
	Vertices  []*Vector3 `msgpack:"vertices"`
	Center    *Vector3   `msgpack:"center"`
	Height    float32    `msgpack:"height"`
	Neighbors []uint32   `msgpack:"neighbors"`
	Area      uint8      `msgpack:"area"`
	Flags     uint8      `msgpack:"flags"`
}

// NavMeshData 单个世界的导航网格数据
type NavMeshData struct {
	MeshId   uint32         `msgpack:"mesh_id"`
	Name     string         `msgpack:"name"`
	Polygons []*PolygonData `msgpack:"polygons"`
}

func Decode(fileData []byte) (*NavMeshData, error) {
	navMeshData := new(NavMeshData)
	err := msgpack.Unmarshal(fileData, navMeshData)
	if err != nil {
		return nil, err
	}
	if len(navMeshData.Polygons) == 0 {
		return nil, errors.New("empty nav mesh data")
	}
	for _, polygonData := range navMeshData.Polygons {
		if polygonData.Id == 0 {
			return nil, errors.New("invalid polygon id 0")
		}
		if polygonData.Center == nil {
			return nil, errors.New("polygon missing center")
		}
	}
	return navMeshData, nil
}

func Encode(navMeshData *NavMeshData) ([]byte, error) {
	return msgpack.Marshal(navMeshData)
}

func LoadFromFile(fileName string) (*NavMeshData, error) {
	fileData, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	return Decode(fileData)
}

func SaveToFile(fileName string, navMeshData *NavMeshData) error {
	data, err := Encode(navMeshData)
	if err != nil {
		return err
	}
	return os.WriteFile(fileName, data, 0644)
}
