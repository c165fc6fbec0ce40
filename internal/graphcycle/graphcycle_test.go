package graphcycle

import (
	"errors"
	"slices"
	"testing"
)

func detectMap(graph map[int][]int, policy MissingPolicy, starts ...int) error {
	return Detect(Config[int]{
		Starts:  starts,
		Missing: policy,
		Exists: func(n int) bool {
			_, ok := graph[n]
			return ok
		},
		Next: func(n int) ([]int, error) {
			return graph[n], nil
		},
	})
}

func TestDetectCyclePath(t *testing.T) {
	graph := map[int][]int{
		1: {2},
		2: {3},
		3: {4},
		4: {2},
	}
	err := detectMap(graph, MissingPolicyError, 1)
	var cycle CycleError[int]
	if !errors.As(err, &cycle) {
		t.Fatalf("Detect() error = %v, want CycleError[int]", err)
	}
	if want := []int{2, 3, 4, 2}; !slices.Equal(cycle.Path, want) {
		t.Fatalf("cycle path = %v, want %v", cycle.Path, want)
	}
	if got := cycle.Error(); got != "cycle detected: 2 -> 3 -> 4 -> 2" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestDetectSelfLoop(t *testing.T) {
	err := detectMap(map[int][]int{7: {7}}, MissingPolicyError, 7)
	var cycle CycleError[int]
	if !errors.As(err, &cycle) {
		t.Fatalf("Detect() error = %v, want CycleError[int]", err)
	}
	if want := []int{7, 7}; !slices.Equal(cycle.Path, want) {
		t.Fatalf("cycle path = %v, want %v", cycle.Path, want)
	}
}

func TestDetectDiamondIsAcyclic(t *testing.T) {
	graph := map[int][]int{
		1: {2, 3},
		2: {4},
		3: {4},
		4: nil,
	}
	if err := detectMap(graph, MissingPolicyError, 1, 2, 3, 4); err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
}

func TestDetectMissingPolicy(t *testing.T) {
	graph := map[int][]int{
		1: {2},
	}
	err := detectMap(graph, MissingPolicyError, 1)
	var missing MissingError[int]
	if !errors.As(err, &missing) {
		t.Fatalf("Detect() error = %T, want MissingError[int]", err)
	}
	if missing.From != 1 || missing.Key != 2 {
		t.Fatalf("missing = %+v, want from=1 key=2", missing)
	}

	if err := detectMap(graph, MissingPolicyIgnore, 1); err != nil {
		t.Fatalf("Detect() with MissingIgnore error = %v", err)
	}
}

func TestDetectNextError(t *testing.T) {
	wantErr := errors.New("edges unavailable")
	err := Detect(Config[int]{
		Starts: []int{1},
		Next: func(int) ([]int, error) {
			return nil, wantErr
		},
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Detect() error = %v, want %v", err, wantErr)
	}
}

func TestDetectNilNext(t *testing.T) {
	if err := Detect(Config[int]{Starts: []int{1}}); err == nil {
		t.Fatal("Detect() error = nil, want error")
	}
}
