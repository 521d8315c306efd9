package model

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vangberg/issuerizer/pkg/domain/types"
)

// IssueRef identifies a single GitHub issue. It is immutable once
// constructed by ParseIssueRef.
type IssueRef struct {
	Owner  string
	Repo   string
	Number int
}

// shorthand form: owner/repo#number. Owner and repo must not contain
// '/', '#' or whitespace.
var shorthandRegex = regexp.MustCompile(`^([^/#\s]+)/([^/#\s]+)#([0-9]+)$`)

// ParseIssueRef normalizes a user-supplied issue reference into an
// IssueRef. Two forms are accepted:
//
//	https://github.com/<owner>/<repo>/issues/<number>
//	<owner>/<repo>#<number>
//
// Trailing slashes and query strings on the URL form are ignored. Case
// is preserved; GitHub treats owner/repo names case-insensitively on
// its side.
func ParseIssueRef(input string) (*IssueRef, error) {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return parseIssueURL(input)
	}

	m := shorthandRegex.FindStringSubmatch(input)
	if m == nil {
		return nil, goerr.New("unrecognized reference format",
			goerr.T(types.TagBadRef), goerr.V("input", input))
	}

	number, err := parseIssueNumber(m[3])
	if err != nil {
		return nil, goerr.Wrap(err, "unrecognized reference format",
			goerr.T(types.TagBadRef), goerr.V("input", input))
	}

	return &IssueRef{Owner: m[1], Repo: m[2], Number: number}, nil
}

func parseIssueURL(input string) (*IssueRef, error) {
	u, err := url.Parse(input)
	if err != nil {
		return nil, goerr.Wrap(err, "unrecognized reference format",
			goerr.T(types.TagBadRef), goerr.V("input", input))
	}

	if u.Host != "github.com" {
		return nil, goerr.New("unrecognized reference format: not a github.com URL",
			goerr.T(types.TagBadRef), goerr.V("input", input))
	}

	// Expected path: /owner/repo/issues/number
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 4 || parts[2] != "issues" {
		return nil, goerr.New("unrecognized reference format",
			goerr.T(types.TagBadRef), goerr.V("input", input))
	}

	for _, seg := range parts[:2] {
		if seg == "" || strings.ContainsAny(seg, "#") || strings.ContainsFunc(seg, isSpace) {
			return nil, goerr.New("unrecognized reference format",
				goerr.T(types.TagBadRef), goerr.V("input", input))
		}
	}

	number, err := parseIssueNumber(parts[3])
	if err != nil {
		return nil, goerr.Wrap(err, "unrecognized reference format",
			goerr.T(types.TagBadRef), goerr.V("input", input))
	}

	return &IssueRef{Owner: parts[0], Repo: parts[1], Number: number}, nil
}

// parseIssueNumber accepts base-10 positive integers. Issue numbers
// start at 1, and leading zeros are rejected.
func parseIssueNumber(s string) (int, error) {
	if s == "" || s[0] == '0' {
		return 0, goerr.New("issue number must be a positive integer", goerr.V("number", s))
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, goerr.New("issue number must be a positive integer", goerr.V("number", s))
	}
	return n, nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// String renders the canonical shorthand form. Parsing the result
// yields an identical IssueRef.
func (r *IssueRef) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

// URL renders the canonical issue URL on github.com
func (r *IssueRef) URL() string {
	return fmt.Sprintf("https://github.com/%s/%s/issues/%d", r.Owner, r.Repo, r.Number)
}

// Comment is a single issue comment as returned by the GitHub API
type Comment struct {
	Author    string
	Body      string
	HTMLURL   string
	CreatedAt time.Time
}

// IssueThread is an issue plus its comment list in chronological order.
// Constructed from API responses and discarded after the run.
type IssueThread struct {
	Title     string
	Body      string
	State     string
	Author    string
	HTMLURL   string
	CreatedAt time.Time
	Comments  []Comment
}

// SummarizeInput is the request handed to the summarize use case
type SummarizeInput struct {
	Ref    *IssueRef
	Update bool
}

// RunResult is the final outcome of a run. Summary is the verbatim LLM
// response; Updated reports whether the issue body was replaced.
type RunResult struct {
	Summary string
	Updated bool
}
