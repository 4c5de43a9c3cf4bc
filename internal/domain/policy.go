package domain

// GatePolicy specifies the admission thresholds applied after scoring
type GatePolicy struct {
	MinOverallScore     float64
	MaxCriticalFindings int
}

// DefaultGatePolicy returns the thresholds used when no policy is configured
func DefaultGatePolicy() GatePolicy {
	return GatePolicy{
		MinOverallScore:     70,
		MaxCriticalFindings: 0,
	}
}
