package benchmark

import (
	"fmt"
	"os"

	"github.com/soundprediction/trovato/pkg/utils"
)

// Kind labels how a case's query is phrased. The summary reports keyword and
// natural-language latency separately, so every case carries one.
type Kind string

const (
	// KindKeyword marks short structured queries ("http client").
	KindKeyword Kind = "keyword"
	// KindNatural marks full-sentence queries, questions included.
	KindNatural Kind = "natural"
)

// Case is one benchmark query.
type Case struct {
	Name  string `yaml:"name" json:"name"`
	Query string `yaml:"query" json:"query"`
	Kind  Kind   `yaml:"kind" json:"kind"`
}

// LoadSuite reads a YAML suite file: a top-level sequence of cases. Items
// that fail to decode are skipped, a case without a query is an error, and a
// missing name or kind defaults to the query text and "keyword".
func LoadSuite(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}

	parsed, err := utils.UnmarshalYAML[Case](string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse suite file %s: %w", path, err)
	}

	cases := make([]Case, 0, len(parsed))
	for i, c := range parsed {
		if c.Query == "" {
			return nil, fmt.Errorf("suite case %d has no query", i)
		}
		if c.Name == "" {
			c.Name = c.Query
		}
		switch c.Kind {
		case "":
			c.Kind = KindKeyword
		case KindKeyword, KindNatural:
		default:
			return nil, fmt.Errorf("suite case %q has unknown kind %q", c.Name, c.Kind)
		}
		cases = append(cases, *c)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("suite file %s contains no cases", path)
	}
	return cases, nil
}

// DefaultSuite returns the built-in evaluation queries: common
// package-hunting intents phrased as keywords and as natural language, with
// CJK coverage matching the corpora this engine is tuned on.
func DefaultSuite() []Case {
	return []Case{
		{Name: "http-client", Query: "http client", Kind: KindKeyword},
		{Name: "json-parser", Query: "json parser", Kind: KindKeyword},
		{Name: "async-runtime", Query: "async runtime", Kind: KindKeyword},
		{Name: "cli-tool", Query: "cli tool", Kind: KindKeyword},
		{Name: "database-orm", Query: "database orm", Kind: KindKeyword},
		{Name: "webserver-framework", Query: "webserver framework", Kind: KindKeyword},
		{Name: "http-client-zh", Query: "我需要一个HTTP客户端库", Kind: KindNatural},
		{Name: "json-parsing-zh", Query: "如何解析JSON数据？", Kind: KindNatural},
		{Name: "logging-zh", Query: "推荐一个Rust的日志库", Kind: KindNatural},
		{Name: "cli-args-zh", Query: "使用哪个crate可以处理命令行参数？", Kind: KindNatural},
	}
}
