package deploy

// Step is one planned resource in evaluation order.
type Step struct {
	Name      string
	DependsOn []string
}

// Preview returns the planned resources in a valid evaluation order without
// creating anything.
func (d *Deployment) Preview() ([]Step, error) {
	g, err := d.Plan()
	if err != nil {
		return nil, err
	}

	order, err := g.TopoSort()
	if err != nil {
		return nil, err
	}

	steps := make([]Step, 0, len(order))
	for _, name := range order {
		res, _ := g.Get(name)
		steps = append(steps, Step{Name: name, DependsOn: res.Dependencies()})
	}

	return steps, nil
}
