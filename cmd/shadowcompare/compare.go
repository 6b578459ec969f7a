package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
)

// errBreakingDiff is returned when a critical target disagrees.
var errBreakingDiff = errors.New("breaking differences found")

type options struct {
	goBase      string
	legacyBase  string
	targetsPath string
	timeout     time.Duration
	ignore      []string
	verbose     bool
}

type target struct {
	Method   string          `json:"method"`
	Path     string          `json:"path"`
	Body     json.RawMessage `json:"body,omitempty"`
	Critical bool            `json:"critical"`
	Ignore   []string        `json:"ignore,omitempty"`
}

type targetsFile struct {
	Targets []target `json:"targets"`
}

type comparison struct {
	Target         target
	LegacyStatus   int
	GoStatus       int
	StatusMatch    bool
	BodyMatch      bool
	Diff           string
	Error          error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

func (c comparison) breaking() bool {
	if !c.Target.Critical {
		return false
	}
	return c.Error != nil || !c.StatusMatch || !c.BodyMatch
}

func (c comparison) differs() bool {
	return c.Error == nil && (!c.StatusMatch || !c.BodyMatch)
}

func run(ctx context.Context, out io.Writer, opts options) error {
	targets, err := loadTargets(opts.targetsPath)
	if err != nil {
		return fmt.Errorf("load targets: %w", err)
	}

	client := &http.Client{Timeout: opts.timeout}
	results := make([]comparison, 0, len(targets))
	var breaking, optional int
	for _, tgt := range targets {
		res := compareTarget(ctx, client, opts.goBase, opts.legacyBase, tgt, opts.ignore)
		switch {
		case res.breaking():
			breaking++
		case res.differs():
			optional++
		}
		results = append(results, res)
	}

	printReport(out, results, opts.verbose)
	fmt.Fprintf(out, "Breaking diffs: %d, Optional diffs: %d\n", breaking, optional)
	if breaking > 0 {
		return errBreakingDiff
	}
	return nil
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file targetsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return file.Targets, nil
}

func compareTarget(ctx context.Context, client *http.Client, goBase, legacyBase string, tgt target, ignore []string) comparison {
	comp := comparison{Target: tgt}

	goStatus, goBody, goDur, goErr := performRequest(ctx, client, goBase, tgt)
	legacyStatus, legacyBody, legacyDur, legacyErr := performRequest(ctx, client, legacyBase, tgt)
	comp.DurationGo = goDur
	comp.DurationLegacy = legacyDur

	if goErr != nil {
		comp.Error = fmt.Errorf("go request failed: %w", goErr)
		return comp
	}
	if legacyErr != nil {
		comp.Error = fmt.Errorf("legacy request failed: %w", legacyErr)
		return comp
	}

	comp.GoStatus = goStatus
	comp.LegacyStatus = legacyStatus
	comp.StatusMatch = goStatus == legacyStatus

	skip := make(map[string]struct{}, len(ignore)+len(tgt.Ignore))
	for _, key := range append(append([]string{}, ignore...), tgt.Ignore...) {
		skip[key] = struct{}{}
	}
	comp.BodyMatch, comp.Diff = legacySubset(legacyBody, goBody, skip)

	return comp
}

func performRequest(ctx context.Context, client *http.Client, base string, tgt target) (int, []byte, time.Duration, error) {
	if client == nil {
		return 0, nil, 0, errors.New("nil client")
	}
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := strings.TrimRight(base, "/") + path

	var body io.Reader
	if len(tgt.Body) > 0 {
		body = bytes.NewReader(tgt.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, payload, time.Since(start), nil
}

// legacySubset reports whether every field of the legacy body is present and equal in the Go body.
// The Go service may add fields; keys in skip are not compared at any depth.
func legacySubset(legacyBody, goBody []byte, skip map[string]struct{}) (bool, string) {
	if bytes.Equal(bytes.TrimSpace(legacyBody), bytes.TrimSpace(goBody)) {
		return true, ""
	}

	var legacy, current interface{}
	if err := json.Unmarshal(legacyBody, &legacy); err != nil {
		return false, fmt.Sprintf("legacy body is not JSON: %v", err)
	}
	if err := json.Unmarshal(goBody, &current); err != nil {
		return false, fmt.Sprintf("go body is not JSON: %v", err)
	}

	projected := project(legacy, current, skip)
	legacy = prune(legacy, skip)
	if cmp.Equal(legacy, projected) {
		return true, ""
	}
	return false, cmp.Diff(legacy, projected)
}

// project keeps only the parts of current that have a counterpart in shape.
func project(shape, current interface{}, skip map[string]struct{}) interface{} {
	switch s := shape.(type) {
	case map[string]interface{}:
		c, ok := current.(map[string]interface{})
		if !ok {
			return current
		}
		out := make(map[string]interface{}, len(s))
		for k, sv := range s {
			if _, skipped := skip[k]; skipped {
				continue
			}
			if cv, exists := c[k]; exists {
				out[k] = project(sv, cv, skip)
			}
		}
		return out
	case []interface{}:
		c, ok := current.([]interface{})
		if !ok {
			return current
		}
		out := make([]interface{}, len(c))
		for i := range c {
			if i < len(s) {
				out[i] = project(s[i], c[i], skip)
			} else {
				out[i] = prune(c[i], skip)
			}
		}
		return out
	default:
		return current
	}
}

func prune(v interface{}, skip map[string]struct{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, inner := range val {
			if _, skipped := skip[k]; skipped {
				continue
			}
			out[k] = prune(inner, skip)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, inner := range val {
			out[i] = prune(inner, skip)
		}
		return out
	default:
		return v
	}
}
