package post

import (
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// Options holds display annotations of a view. Zero means "not customized".
type Options struct {
	Tangents int `yaml:"tangents"`
	Normals  int `yaml:"normals"`
}

// View is an element-indexed dataset: element number -> component values
type View struct {
	Name    string            `yaml:"name"`
	Type    string            `yaml:"type"`
	Step    int               `yaml:"step"`
	NumComp int               `yaml:"numComp"`
	Data    map[int][]float64 `yaml:"data"`
	Options Options           `yaml:"options"`
}

func (v *View) GetOptions() Options     { return v.Options }
func (v *View) SetOptions(opt Options) { v.Options = opt }

// Elements returns the element numbers carried by the view in increasing order
func (v *View) Elements() []int {
	nums := make([]int, 0, len(v.Data))
	for n := range v.Data {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// Sink accepts datasets for visualization
type Sink interface {
	AddElementData(name string, data map[int][]float64, step, numComp int) *View
}

// Registry is an in-memory Sink keeping views in creation order
type Registry struct {
	Defaults Options
	views    []*View
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) AddElementData(name string, data map[int][]float64, step, numComp int) *View {
	cp := make(map[int][]float64, len(data))
	for k, vals := range data {
		cp[k] = append([]float64(nil), vals...)
	}
	v := &View{
		Name:    name,
		Type:    "ElementData",
		Step:    step,
		NumComp: numComp,
		Data:    cp,
		Options: r.Defaults,
	}
	r.views = append(r.views, v)
	return v
}

func (r *Registry) Views() []*View { return append([]*View(nil), r.views...) }
func (r *Registry) Len() int       { return len(r.views) }

// View returns the view with the given name
func (r *Registry) View(name string) (*View, bool) {
	for _, v := range r.views {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// WriteYAML serializes every view as one YAML document stream entry
func (r *Registry) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, v := range r.views {
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode view %q: %w", v.Name, err)
		}
	}
	return enc.Close()
}
