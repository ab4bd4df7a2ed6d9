package service

const (
	// Result list sizes
	ComparableLimit   = 5
	ExamplesLimit     = 5
	TopActivitiesSize = 10

	// Burn curve resolution (points from 0 to the session length)
	BurnCurvePoints = 13

	// ModelSourceStored and ModelSourceTrained say where the model came from
	ModelSourceStored  = "stored"
	ModelSourceTrained = "trained"
)
