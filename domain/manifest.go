package domain

// Manifest is the project manifest the audited tree was installed from.
type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
	Scripts         map[string]string `json:"scripts,omitempty"`
}

// Requires merges the manifest's declared dependency ranges. Development
// dependencies are left out when production is set; on a name collision the
// production range wins.
func (m *Manifest) Requires(production bool) map[string]string {
	requires := make(map[string]string, len(m.Dependencies)+len(m.DevDependencies))
	if !production {
		for name, spec := range m.DevDependencies {
			requires[name] = spec
		}
	}
	for name, spec := range m.Dependencies {
		requires[name] = spec
	}
	return requires
}
