package ID

import (
	"fmt"
	"strconv"
	"strings"
)

// RunID identifies one generator or switcher run: the seed fed to the PRNG and the
// unix time in nanoseconds the run started
type RunID struct {
	Seed    int64
	Started int64
}

// String returns the RunID as "Seed-Started"
func (ri *RunID) String() string {

	seed := strconv.FormatInt(ri.Seed, 10)
	started := strconv.FormatInt(ri.Started, 10)

	return fmt.Sprintf("%s-%s", seed, started)

}

// StringToID parses "Seed-Started" back into a RunID. A negative seed keeps its sign.
func StringToID(str string) (RunID, error) {

	id := RunID{}

	cut := strings.LastIndex(str, "-")
	if cut <= 0 || cut == len(str)-1 {
		return id, fmt.Errorf("malformed run id %q", str)
	}

	var err error
	id.Seed, err = strconv.ParseInt(str[:cut], 10, 64)
	if err != nil {
		return RunID{}, fmt.Errorf("run id %q seed: %w", str, err)
	}
	id.Started, err = strconv.ParseInt(str[cut+1:], 10, 64)
	if err != nil {
		return RunID{}, fmt.Errorf("run id %q start time: %w", str, err)
	}

	return id, nil
}
