// Command trajectory runs the module's demo subset-selection problem
// through several search algorithms and prints a comparison table, in
// the teacher's cmd/mapfhet style but split across cobra subcommands.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/elektrokombinacija/trajectory/algo"
	"github.com/elektrokombinacija/trajectory/config"
	"github.com/elektrokombinacija/trajectory/search"
	"github.com/elektrokombinacija/trajectory/subset"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("error: %v", err)
	}
}

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "trajectory",
	Short: "Demo runner for the trajectory single-solution search module",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a toy knapsack-shaped subset problem through several algorithms and print a comparison",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&cfgPath, "config", "", "path to a YAML config file (uses built-in defaults if omitted)")
	rootCmd.AddCommand(runCmd, configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the built-in default configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("# default trajectory configuration")
		cfg := config.Default()
		fmt.Printf("stop_criteria:\n  max_runtime: %s\n", cfg.StopCriteria.MaxRuntime)
		fmt.Printf("metropolis:\n  temperature: %g\n", cfg.Metropolis.Temperature)
		fmt.Printf("tabu:\n  kind: %s\n  capacity: %d\n", cfg.Tabu.Kind, cfg.Tabu.Capacity)
		fmt.Printf("parallel_tempering:\n  replicas: %d\n  min_temp: %g\n  max_temp: %g\n  replica_steps: %d\n",
			cfg.ParallelTempering.Replicas, cfg.ParallelTempering.MinTemp, cfg.ParallelTempering.MaxTemp, cfg.ParallelTempering.ReplicaSteps)
		return nil
	},
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	problem, nh := buildToyProblem()

	type result struct {
		name    string
		value   float64
		elapsed time.Duration
	}
	var results []result

	run := func(name string, build func() (search.Algorithm[*subset.Solution], *search.StopCriterionChecker[*subset.Solution])) {
		algorithm, checker := build()
		s := search.New(problem, checker)
		start := time.Now()
		if err := s.Start(algorithm); err != nil {
			fmt.Printf("  %s: error: %v\n", name, err)
			return
		}
		elapsed := time.Since(start)
		_, eval, _, ok := s.BestSolution()
		if !ok {
			fmt.Printf("  %s: no valid solution found (time=%v)\n", name, elapsed)
			return
		}
		results = append(results, result{name, eval.Value(), elapsed})
	}

	run("RandomDescent", func() (search.Algorithm[*subset.Solution], *search.StopCriterionChecker[*subset.Solution]) {
		return algo.NewRandomDescent[*subset.Solution](problem, nh), config.BuildChecker[*subset.Solution](cfg.StopCriteria)
	})
	run("SteepestDescent", func() (search.Algorithm[*subset.Solution], *search.StopCriterionChecker[*subset.Solution]) {
		return algo.NewSteepestDescent[*subset.Solution](problem, nh), config.BuildChecker[*subset.Solution](cfg.StopCriteria)
	})
	run("MetropolisSearch", func() (search.Algorithm[*subset.Solution], *search.StopCriterionChecker[*subset.Solution]) {
		m, err := algo.NewMetropolisSearch[*subset.Solution](problem, nh, cfg.Metropolis.Temperature)
		if err != nil {
			log.Fatalf("metropolis: %v", err)
		}
		return m, config.BuildChecker[*subset.Solution](cfg.StopCriteria)
	})
	run("TabuSearch", func() (search.Algorithm[*subset.Solution], *search.StopCriterionChecker[*subset.Solution]) {
		mem := algo.NewSolutionFIFOTabuMemory[*subset.Solution](cfg.Tabu.Capacity)
		return algo.NewTabuSearch[*subset.Solution](problem, nh, mem), config.BuildChecker[*subset.Solution](cfg.StopCriteria)
	})

	fmt.Println("algorithm            best value   time")
	for _, r := range results {
		fmt.Printf("%-20s %10.2f   %v\n", r.name, r.value, r.elapsed)
	}
	return nil
}

// valueObjective scores a subset by the sum of a fixed per-item value
// table, maximizing. It is the demo's own problem-specific Objective: a
// concrete embedding application supplies one of these, not the module.
type valueObjective struct {
	values []float64
}

func (o *valueObjective) IsMinimizing() bool { return false }

func (o *valueObjective) Evaluate(s *subset.Solution, data any) search.Evaluation {
	var total float64
	for _, id := range s.SelectedIDsOrdered() {
		total += o.values[id]
	}
	return search.SimpleEvaluation(total)
}

func (o *valueObjective) EvaluateDelta(move search.Move[*subset.Solution], curSol *subset.Solution, curEval search.Evaluation, data any) (search.Evaluation, error) {
	return search.DefaultEvaluateDelta[*subset.Solution](o, move, curSol, data), nil
}

// buildToyProblem assembles a small knapsack-shaped subset problem: each
// item has a random value, the objective maximizes total value, and a
// SizeConstraint caps the subset's cardinality.
func buildToyProblem() (*search.Problem[*subset.Solution], search.Neighbourhood[*subset.Solution]) {
	const n = 20
	values := make([]float64, n)
	universe := make([]subset.ID, n)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < n; i++ {
		universe[i] = subset.ID(i)
		values[i] = rng.Float64() * 100
	}

	objective := &valueObjective{values: values}
	sizeLimit := &subset.SizeConstraint{Min: 0, Max: n / 2}
	generator := &subset.FixedSizeRandomGenerator{Universe: universe, Size: n / 4}

	problem, err := search.NewProblem[*subset.Solution](nil, objective, []search.Constraint[*subset.Solution]{sizeLimit}, nil, generator)
	if err != nil {
		log.Fatalf("problem: %v", err)
	}

	nh := subset.SinglePerturbation{MinSize: 0, MaxSize: n / 2}
	return problem, nh
}
