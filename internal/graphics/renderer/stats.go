package renderer

// FrameStats are the counters accumulated between two ResetStats calls
type FrameStats struct {
	DrawCalls   int
	VertexCount int
	IndexCount  int

	// Frozen from the culler at EndScene
	MeshCount        int
	VisibleMeshCount int
	CulledMeshCount  int

	IndividualDrawCalls int
	IndividualObjects   int
	InstancedDrawCalls  int
	InstancedObjects    int
	LineDrawCalls       int

	// Percentage of draw calls saved by instancing, computed at EndScene
	InstancingEfficiency float32
}

// Statistics is the live counter set plus the snapshot taken by the last ResetStats
type Statistics struct {
	FrameStats
	LastFrame FrameStats
}

// CullingEfficiency is the culled percentage of tested meshes
func (s FrameStats) CullingEfficiency() float32 {
	if s.MeshCount == 0 {
		return 0
	}
	return float32(s.CulledMeshCount) / float32(s.MeshCount) * 100
}

// ObjectCount is the number of meshes actually drawn
func (s FrameStats) ObjectCount() int {
	return s.IndividualObjects + s.InstancedObjects
}

// instancingEfficiency compares the calls issued with the calls needed had
// every instanced object been drawn on its own.
func (s FrameStats) instancingEfficiency() float32 {
	if s.InstancedObjects == 0 {
		return 0
	}
	without := s.IndividualDrawCalls + s.InstancedObjects
	actual := s.IndividualDrawCalls + s.InstancedDrawCalls
	return float32(without-actual) / float32(without) * 100
}

// ResetStats snapshots the current counters into LastFrame and zeroes them
func (r *Renderer) ResetStats() {
	r.stats.LastFrame = r.stats.FrameStats
	r.stats.FrameStats = FrameStats{}
	r.instanced.ResetStats()
}

// Stats returns the live counters and the last snapshot
func (r *Renderer) Stats() Statistics { return r.stats }

// LastFrameStats returns the counters as they were at the last ResetStats
func (r *Renderer) LastFrameStats() FrameStats { return r.stats.LastFrame }
