package enums

// Technology is the 3D printing process category for an order line.
type Technology string

const (
	TechnologyFDM   Technology = "fdm"
	TechnologySLA   Technology = "sla"
	TechnologyMetal Technology = "metal"
)

func (t Technology) IsValid() bool {
	switch t {
	case TechnologyFDM, TechnologySLA, TechnologyMetal:
		return true
	}
	return false
}

func (t Technology) String() string {
	return string(t)
}

// Technologies lists the closed set of supported processes.
func Technologies() []Technology {
	return []Technology{TechnologyFDM, TechnologySLA, TechnologyMetal}
}
