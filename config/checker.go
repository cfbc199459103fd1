package config

import "github.com/elektrokombinacija/trajectory/search"

// BuildChecker translates a StopCriteria section into a
// search.StopCriterionChecker, installing only the criteria whose
// threshold was actually set in the YAML document.
func BuildChecker[S search.Solution[S]](c StopCriteria) *search.StopCriterionChecker[S] {
	interval := c.CheckInterval
	if interval <= 0 {
		interval = search.DefaultCheckInterval
	}
	checker := search.NewStopCriterionChecker[S](interval)
	if c.MaxRuntime > 0 {
		checker.AddCriterion(search.MaxRuntime[S]{Duration: c.MaxRuntime})
	}
	if c.MaxSteps > 0 {
		checker.AddCriterion(search.MaxSteps[S]{N: c.MaxSteps})
	}
	if c.MaxStepsWithoutImprovement > 0 {
		checker.AddCriterion(search.MaxStepsWithoutImprovement[S]{N: c.MaxStepsWithoutImprovement})
	}
	if c.MaxTimeWithoutImprovement > 0 {
		checker.AddCriterion(search.MaxTimeWithoutImprovement[S]{Duration: c.MaxTimeWithoutImprovement})
	}
	if c.MinDeltaThreshold > 0 {
		checker.AddCriterion(search.MinDeltaThreshold[S]{Threshold: c.MinDeltaThreshold})
	}
	if c.TargetValue != nil {
		checker.AddCriterion(search.TargetValueReached[S]{Target: *c.TargetValue})
	}
	return checker
}
