package alg

// Region2DPolygonContainPos 判断平面多边形是否包含某点 射线法
func Region2DPolygonContainPos(points []*Vector2, pos *Vector2) bool {
	if len(points) < 3 {
		return false
	}
	contain := false
	j := len(points) - 1
	for i := 0; i < len(points); i++ {
		pi := points[i]
		pj := points[j]
		if (pi.Y > pos.Y) != (pj.Y > pos.Y) {
			x := (pj.X-pi.X)*(pos.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if pos.X < x {
				contain = !contain
			}
		}
		j = i
	}
	return contain
}
