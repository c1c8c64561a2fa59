package alg

import (
	"testing"
)

func TestRegion2DPolygonContainPos(t *testing.T) {
	// 10x10方形
	points := []*Vector2{
		{X: 0.0, Y: 0.0},
		{X: 10.0, Y: 0.0},
		{X: 10.0, Y: 10.0},
		{X: 0.0, Y: 10.0},
	}
	if !Region2DPolygonContainPos(points, &Vector2{X: 5.0, Y: 5.0}) {
		t.Error("center should be contained")
	}
	if Region2DPolygonContainPos(points, &Vector2{X: 15.0, Y: 5.0}) {
		t.Error("outside point should not be contained")
	}
	if Region2DPolygonContainPos(points, &Vector2{X: -1.0, Y: -1.0}) {
		t.Error("outside point should not be contained")
	}
}

func TestRegion2DPolygonContainPosConcave(t *testing.T) {
	// L形凹多边形
	points := []*Vector2{
		{X: 0.0, Y: 0.0},
		{X: 10.0, Y: 0.0},
		{X: 10.0, Y: 5.0},
		{X: 5.0, Y: 5.0},
		{X: 5.0, Y: 10.0},
		{X: 0.0, Y: 10.0},
	}
	if !Region2DPolygonContainPos(points, &Vector2{X: 2.0, Y: 8.0}) {
		t.Error("point in L arm should be contained")
	}
	if Region2DPolygonContainPos(points, &Vector2{X: 8.0, Y: 8.0}) {
		t.Error("point in concave notch should not be contained")
	}
}

func TestRegion2DPolygonDegenerate(t *testing.T) {
	points := []*Vector2{
		{X: 0.0, Y: 0.0},
		{X: 10.0, Y: 0.0},
	}
	if Region2DPolygonContainPos(points, &Vector2{X: 5.0, Y: 0.0}) {
		t.Error("less than 3 points never contains")
	}
}
