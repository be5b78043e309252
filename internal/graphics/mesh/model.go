package mesh

// Model is an ordered collection of meshes drawn with one transform
type Model struct {
	Name   string
	Meshes []*Mesh
}

func NewModel(name string, meshes ...*Mesh) *Model {
	return &Model{Name: name, Meshes: meshes}
}

func (m *Model) AddMesh(mesh *Mesh) {
	m.Meshes = append(m.Meshes, mesh)
}

// ModelRenderer pairs a model with an optional material that replaces every
// mesh's own material.
type ModelRenderer struct {
	Model            *Model
	OverrideMaterial *Material
}
