package enums

// VolumeMethod records how a line's volume was obtained.
type VolumeMethod string

const (
	VolumeMethodEstimated  VolumeMethod = "estimated"
	VolumeMethodCalculated VolumeMethod = "calculated"
)

func (m VolumeMethod) IsValid() bool {
	switch m {
	case VolumeMethodEstimated, VolumeMethodCalculated:
		return true
	}
	return false
}

func (m VolumeMethod) String() string {
	return string(m)
}
