package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"
	"sort"

	"cutesy/internal/diag"
	"cutesy/internal/driver"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
	Properties       struct {
		Fixable    bool `json:"fixable"`
		Structural bool `json:"structural"`
	} `json:"properties"`
}

type sarifInvocation struct {
	Arguments           []string            `json:"arguments,omitempty"`
	ExecutionSuccessful bool                `json:"executionSuccessful"`
	Notifications       []sarifNotification `json:"toolExecutionNotifications,omitempty"`
}

type sarifNotification struct {
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

// sarifRegion columns are 1-based.
type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
}

// Sarif writes results as a SARIF 2.1.0 log with one run. Rules are listed
// once each, in catalog order, for the codes that occur.
func Sarif(w io.Writer, results []driver.FileResult, meta SarifRunMeta) error {
	name := meta.ToolName
	if name == "" {
		name = "cutesy"
	}

	used := make(map[diag.Code]struct{})
	for _, r := range results {
		for _, d := range r.Diagnostics {
			used[d.Code] = struct{}{}
		}
	}
	codes := make([]diag.Code, 0, len(used))
	for c := range used {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	ruleIndex := make(map[diag.Code]int, len(codes))
	rules := make([]sarifRule, len(codes))
	for i, c := range codes {
		ruleIndex[c] = i
		rules[i].ID = c.ID()
		rules[i].ShortDescription.Text = c.Title()
		rules[i].Properties.Fixable = c.Fixable()
		rules[i].Properties.Structural = c.Structural()
	}

	invocation := sarifInvocation{Arguments: meta.InvocationArgs, ExecutionSuccessful: true}
	out := make([]sarifResult, 0)
	for _, r := range results {
		uri := filepath.ToSlash(displayPath(r.Path, meta.PathMode, meta.BaseDir))
		if r.Err != nil {
			invocation.ExecutionSuccessful = false
			invocation.Notifications = append(invocation.Notifications, sarifNotification{
				Level:     "error",
				Message:   sarifMessage{Text: r.Err.Error()},
				Locations: []sarifLocation{{PhysicalLocation: sarifPhysicalLocation{ArtifactLocation: sarifArtifact{URI: uri}}}},
			})
		}
		for _, d := range r.Diagnostics {
			loc := sarifPhysicalLocation{ArtifactLocation: sarifArtifact{URI: uri}}
			if d.Line > 0 {
				loc.Region = &sarifRegion{StartLine: d.Line, StartColumn: d.Column + 1}
			}
			out = append(out, sarifResult{
				RuleID:    d.Code.ID(),
				RuleIndex: ruleIndex[d.Code],
				Level:     sarifLevel(d.Severity),
				Message:   sarifMessage{Text: d.Message()},
				Locations: []sarifLocation{{PhysicalLocation: loc}},
			})
		}
	}

	log := sarifLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool:        sarifTool{Driver: sarifDriver{Name: name, Version: meta.ToolVersion, Rules: rules}},
			Invocations: []sarifInvocation{invocation},
			Results:     out,
		}},
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(log)
}

func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevFatal, diag.SevError:
		return "error"
	case diag.SevInfo:
		return "note"
	}
	return "warning"
}
