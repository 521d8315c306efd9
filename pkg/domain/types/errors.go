package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures by the pipeline stage they occurred in.
// Every error bubbles up to the CLI unmodified; tags keep the failure
// class visible in logs without introducing per-class exit codes.
var (
	// TagBadRef marks a malformed issue reference. No API call has been
	// made when this tag is present.
	TagBadRef = goerr.NewTag("bad_reference")

	// TagFetch marks a GitHub read failure (auth, not-found, rate limit).
	TagFetch = goerr.NewTag("fetch")

	// TagSummarize marks an LLM failure (auth, quota, empty response).
	TagSummarize = goerr.NewTag("summarize")

	// TagUpdate marks a GitHub write failure. A summary generated before
	// the failed write is still returned to the caller.
	TagUpdate = goerr.NewTag("update")
)
