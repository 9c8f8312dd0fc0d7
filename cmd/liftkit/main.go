// Command liftkit is the CLI tool for the liftkit library. It parses LIFT
// dictionary files and ranges documents, generates LIFT XML from JSON
// entry data, and provides formatting and query helpers for LIFT files.
package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	liberr "github.com/lexbox-tools/liftkit/core/errors"
	"github.com/lexbox-tools/liftkit/core/lift"
	"github.com/lexbox-tools/liftkit/core/ranges"
	"github.com/lexbox-tools/liftkit/internal/logging"
	"github.com/lexbox-tools/liftkit/internal/xmlutil"
)

const version = "0.1.0"

// CLI defines the command-line interface for liftkit.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" help:"Log format (text, json)"`

	Parse    ParseCmd    `cmd:"" help:"Parse a LIFT file and print entries as JSON"`
	Generate GenerateCmd `cmd:"" help:"Generate LIFT XML from a JSON entry file"`
	Ranges   RangesCmd   `cmd:"" help:"Parse a lift-ranges file and print ranges as JSON"`
	Fmt      FmtCmd      `cmd:"" help:"Pretty-print an XML file"`
	Query    QueryCmd    `cmd:"" help:"Run an XPath query against an XML file"`
	Info     InfoCmd     `cmd:"" help:"Print entry counts and content checksum for a LIFT file"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// readInput reads a file, transparently decompressing .xz input.
func readInput(path string) ([]byte, error) {
	data, err := xmlutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".xz") {
		return data, nil
	}
	xzr, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, liberr.NewIO("decompress", path, err)
	}
	decompressed, err := io.ReadAll(xzr)
	if err != nil {
		return nil, liberr.NewIO("decompress", path, err)
	}
	logging.Debug("decompressed input", "path", path,
		"compressed", len(data), "size", len(decompressed))
	return decompressed, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// ParseCmd parses a LIFT file into entries.
type ParseCmd struct {
	Path       string `arg:"" help:"Path to LIFT file" type:"path"`
	NoValidate bool   `name:"no-validate" help:"Skip entry validation"`
}

func (c *ParseCmd) Run() error {
	data, err := readInput(c.Path)
	if err != nil {
		return err
	}
	parser := lift.NewParser(lift.WithValidation(!c.NoValidate))
	start := time.Now()
	entries, err := parser.ParseString(string(data))
	if err != nil {
		return err
	}
	logging.ParseEvent("LIFT", c.Path, len(entries), time.Since(start),
		"validated", !c.NoValidate)
	return printJSON(entries)
}

// GenerateCmd turns a JSON entry array into LIFT XML.
type GenerateCmd struct {
	Path string `arg:"" help:"Path to JSON file containing an entry array" type:"path"`
	Out  string `short:"o" help:"Output LIFT file (default stdout)" type:"path"`
}

func (c *GenerateCmd) Run() error {
	data, err := readInput(c.Path)
	if err != nil {
		return err
	}
	var entries []lift.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return &liberr.ParseError{Format: "json", Path: c.Path, Message: "failed to decode entry array", Err: err}
	}
	if c.Out != "" {
		if err := lift.GenerateFile(entries, c.Out); err != nil {
			return err
		}
		logging.Info("wrote LIFT file", "path", c.Out, "entries", len(entries))
		return nil
	}
	xml, err := lift.GenerateString(entries)
	if err != nil {
		return err
	}
	fmt.Print(xml)
	return nil
}

// RangesCmd parses a lift-ranges file.
type RangesCmd struct {
	Path    string `arg:"" help:"Path to lift-ranges file" type:"path"`
	Resolve bool   `help:"Print the inheritance-resolved view"`
}

// resolvedRange mirrors ranges.Range with resolved values for --resolve output.
type resolvedRange struct {
	ID     string                  `json:"id"`
	GUID   string                  `json:"guid,omitempty"`
	Values []*ranges.ResolvedValue `json:"values"`
}

func (c *RangesCmd) Run() error {
	data, err := readInput(c.Path)
	if err != nil {
		return err
	}
	start := time.Now()
	parsed, err := ranges.NewParser().ParseString(string(data))
	if err != nil {
		return err
	}
	logging.ParseEvent("ranges", c.Path, len(parsed), time.Since(start))
	if !c.Resolve {
		return printJSON(parsed)
	}
	resolved := make(map[string]*resolvedRange, len(parsed))
	for id, r := range parsed {
		resolved[id] = &resolvedRange{
			ID:     r.ID,
			GUID:   r.GUID,
			Values: ranges.Resolve(r.Values),
		}
	}
	return printJSON(resolved)
}

// FmtCmd pretty-prints an XML file.
type FmtCmd struct {
	Path string `arg:"" help:"Path to XML file" type:"path"`
}

func (c *FmtCmd) Run() error {
	data, err := readInput(c.Path)
	if err != nil {
		return err
	}
	formatted, err := xmlutil.Format(data, "  ")
	if err != nil {
		return err
	}
	os.Stdout.Write(formatted)
	return nil
}

// QueryCmd runs an XPath expression against an XML file.
type QueryCmd struct {
	Path string `arg:"" help:"Path to XML file" type:"path"`
	Expr string `arg:"" help:"XPath expression"`
}

func (c *QueryCmd) Run() error {
	data, err := readInput(c.Path)
	if err != nil {
		return err
	}
	doc, err := xmlutil.Parse(data)
	if err != nil {
		return err
	}
	nodes, err := xmlutil.XPath(doc, c.Expr)
	if err != nil {
		return err
	}
	logging.Debug("query matched", "path", c.Path, "expr", c.Expr, "count", len(nodes))
	for _, n := range nodes {
		fmt.Println(n.OutputXML(true))
	}
	return nil
}

// InfoCmd summarizes a LIFT file.
type InfoCmd struct {
	Path string `arg:"" help:"Path to LIFT file" type:"path"`
}

func (c *InfoCmd) Run() error {
	data, err := readInput(c.Path)
	if err != nil {
		return err
	}
	entries, err := lift.NewParser(lift.WithValidation(false)).ParseString(string(data))
	if err != nil {
		return err
	}
	senses := 0
	examples := 0
	for i := range entries {
		senses += len(entries[i].Senses)
		for j := range entries[i].Senses {
			examples += len(entries[i].Senses[j].Examples)
		}
	}
	sum := blake3.Sum256(data)
	fmt.Printf("path:     %s\n", c.Path)
	fmt.Printf("size:     %d bytes\n", len(data))
	fmt.Printf("entries:  %d\n", len(entries))
	fmt.Printf("senses:   %d\n", senses)
	fmt.Printf("examples: %d\n", examples)
	fmt.Printf("blake3:   %s\n", hex.EncodeToString(sum[:]))
	return nil
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("liftkit version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("liftkit"),
		kong.Description("liftkit - LIFT dictionary interchange toolkit"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), logging.ParseFormat(CLI.LogFormat))
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
