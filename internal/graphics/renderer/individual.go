package renderer

// drawIndividual issues one indexed draw. Items without a material use the
// default material's maps with their own colour as albedo.
func (r *Renderer) drawIndividual(it *RenderItem) {
	mat := it.Material
	albedo := it.Color
	if mat == nil {
		mat = r.defaultMaterial
	} else {
		albedo = mat.AlbedoColor
	}

	for slot, tex := range mat.Maps() {
		if tex == nil {
			tex = r.white
		}
		tex.Bind(uint32(slot))
	}

	if r.settings.Wireframe {
		p := r.wireframeProgram
		r.use(p)
		p.SetMat4("u_Transform", it.Transform)
		p.SetFloat4("u_Color", albedo)
		p.SetInt("u_EntityID", int32(it.EntityID))
	} else {
		p := r.meshProgram
		r.use(p)
		p.SetMat4("u_Transform", it.Transform)
		p.SetFloat4("u_MaterialAlbedoColor", albedo)
		p.SetFloat("u_MaterialMetallic", mat.Metallic)
		p.SetFloat("u_MaterialRoughness", mat.Roughness)
		p.SetInt("u_EntityID", int32(it.EntityID))
	}

	m := it.Mesh
	r.device.DrawIndexed(m.VertexArray(), m.IndexCount())

	r.stats.DrawCalls++
	r.stats.IndividualDrawCalls++
	r.stats.IndividualObjects++
	r.stats.VertexCount += m.VertexCount()
	r.stats.IndexCount += m.IndexCount()
}
