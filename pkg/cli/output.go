package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vangberg/issuerizer/pkg/domain/model"
)

type actionOutput struct {
	Key   string
	Value string
}

// writeActionOutputs exposes the run result as GitHub Actions step
// outputs. Outside of Actions (GITHUB_OUTPUT unset) it does nothing.
func writeActionOutputs(result *model.RunResult) error {
	path := os.Getenv("GITHUB_OUTPUT")
	if path == "" {
		return nil
	}

	return appendActionOutputs(path, []actionOutput{
		{Key: "summary", Value: result.Summary},
		{Key: "updated", Value: strconv.FormatBool(result.Updated)},
	})
}

// appendActionOutputs writes outputs in the Actions heredoc format. The
// delimiter must not occur in the value, so a random one is used.
func appendActionOutputs(path string, outputs []actionOutput) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return goerr.Wrap(err, "failed to open GITHUB_OUTPUT file", goerr.V("path", path))
	}
	defer f.Close()

	for _, out := range outputs {
		delimiter := "gh-" + uuid.NewString()
		if _, err := fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", out.Key, delimiter, out.Value, delimiter); err != nil {
			return goerr.Wrap(err, "failed to write output", goerr.V("key", out.Key))
		}
	}

	return nil
}
