package main

import (
	"fmt"

	"github.com/pascaldisse/mxo-decompiled/pkg/navmesh"
	"github.com/pascaldisse/mxo-decompiled/pkg/navmesh/format"

	"github.com/spf13/cobra"
)

func MeshToolCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "meshtool",
		Short: "nav mesh file tool",
	}
	c.AddCommand(meshGenCmd())
	c.AddCommand(meshInfoCmd())
	return c
}

// meshGenCmd 生成方格测试网格 每格一个四边形 相邻格互为邻接
func meshGenCmd() *cobra.Command {
	var output string
	var meshId uint32
	var width int32
	var depth int32
	var cellSize float32
	c := &cobra.Command{
		Use:   "gen",
		Short: "generate grid test mesh",
		RunE: func(cmd *cobra.Command, args []string) error {
			if width <= 0 || depth <= 0 || cellSize <= 0.0 {
				return fmt.Errorf("invalid grid size, width: %v, depth: %v, cellSize: %v", width, depth, cellSize)
			}
			navMeshData := GenGridMesh(meshId, width, depth, cellSize)
			err := format.SaveToFile(output, navMeshData)
			if err != nil {
				return err
			}
			fmt.Printf("gen mesh ok, file: %v, polyCount: %v\n", output, len(navMeshData.Polygons))
			return nil
		},
	}
	c.Flags().StringVar(&output, "output", "grid.bin", "output file")
	c.Flags().Uint32Var(&meshId, "mesh_id", 1, "mesh id")
	c.Flags().Int32Var(&width, "width", 10, "grid width")
	c.Flags().Int32Var(&depth, "depth", 10, "grid depth")
	c.Flags().Float32Var(&cellSize, "cell_size", 2.0, "cell size")
	return c
}

func meshInfoCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "info",
		Short: "print mesh file info",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			navMeshData, err := format.LoadFromFile(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("meshId: %v, name: %v, polyCount: %v\n", navMeshData.MeshId, navMeshData.Name, len(navMeshData.Polygons))
			areaCountMap := make(map[uint8]int)
			for _, polygonData := range navMeshData.Polygons {
				areaCountMap[polygonData.Area]++
			}
			for area, count := range areaCountMap {
				fmt.Printf("area: 0x%02x, polyCount: %v\n", area, count)
			}
			return nil
		},
	}
	return c
}

// GenGridMesh 在XZ平面生成width*depth的方格网格 多边形id从1开始按行递增
func GenGridMesh(meshId uint32, width int32, depth int32, cellSize float32) *format.NavMeshData {
	navMeshData := &format.NavMeshData{
		MeshId:   meshId,
		Name:     fmt.Sprintf("grid_%vx%v", width, depth),
		Polygons: make([]*format.PolygonData, 0, width*depth),
	}
	polyId := func(x int32, z int32) uint32 {
		return uint32(z*width+x) + 1
	}
	for z := int32(0); z < depth; z++ {
		for x := int32(0); x < width; x++ {
			minX := float32(x) * cellSize
			minZ := float32(z) * cellSize
			maxX := minX + cellSize
			maxZ := minZ + cellSize
			polygonData := &format.PolygonData{
				Id: polyId(x, z),
				Vertices: []*format.Vector3{
					{X: minX, Y: 0.0, Z: minZ},
					{X: maxX, Y: 0.0, Z: minZ},
					{X: maxX, Y: 0.0, Z: maxZ},
					{X: minX, Y: 0.0, Z: maxZ},
				},
				Center: &format.Vector3{X: (minX + maxX) / 2.0, Y: 0.0, Z: (minZ + maxZ) / 2.0},
				Height: 0.0,
				Area:   navmesh.AREA_WALKABLE,
			}
			if x > 0 {
				polygonData.Neighbors = append(polygonData.Neighbors, polyId(x-1, z))
			}
			if x < width-1 {
				polygonData.Neighbors = append(polygonData.Neighbors, polyId(x+1, z))
			}
			if z > 0 {
				polygonData.Neighbors = append(polygonData.Neighbors, polyId(x, z-1))
			}
			if z < depth-1 {
				polygonData.Neighbors = append(polygonData.Neighbors, polyId(x, z+1))
			}
			navMeshData.Polygons = append(navMeshData.Polygons, polygonData)
		}
	}
	return navMeshData
}
