// Command orizon-resolve-lifetimes runs the lifetime-resolution pass over
// a JSON HIR fixture and prints every resolved lifetime occurrence plus
// any diagnostics produced.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/fsnotify/fsnotify"

	"github.com/orizon-lang/orizon-regions/internal/hir"
	"github.com/orizon-lang/orizon-regions/internal/region"
	"github.com/orizon-lang/orizon-regions/internal/session"
)

func main() {
	var (
		inputPath  string
		edition    string
		jsonOutput bool
		watch      bool
		features   stringList
	)

	flag.StringVar(&inputPath, "in", "", "path to a JSON HIR fixture (required)")
	flag.StringVar(&edition, "edition", "2024", "language edition, gates edition-conditional features")
	flag.BoolVar(&jsonOutput, "json", false, "print the result as JSON instead of text")
	flag.BoolVar(&watch, "watch", false, "re-run whenever the input file changes")
	flag.Var(&features, "feature", "force-enable a feature flag by name (repeatable)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -in fixture.json [OPTIONS]\n\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if inputPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	run := func() int { return resolveOnce(inputPath, edition, features, jsonOutput) }

	if !watch {
		os.Exit(run())
	}

	run()

	if err := watchAndRerun(inputPath, run); err != nil {
		fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		os.Exit(1)
	}
}

type stringList []string

func (s *stringList) String() string { return fmt.Sprint([]string(*s)) }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func resolveOnce(inputPath, edition string, features []string, jsonOutput bool) int {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading %s: %v\n", inputPath, err)
		return 1
	}

	var fc fixtureCrate
	if err := json.Unmarshal(data, &fc); err != nil {
		fmt.Fprintf(os.Stderr, "parsing %s: %v\n", inputPath, err)
		return 1
	}

	sess := session.New(edition)
	for _, f := range features {
		sess.SetFeature(f, true)
	}

	b := &builder{}
	crate := b.buildCrate(&fc, inputPath)
	hirMap := hir.Build(crate)
	m := region.Resolve(crate, hirMap, sess)

	if jsonOutput {
		printJSON(m, sess)
	} else {
		printText(m, sess)
	}

	if sess.ErrorCount() > 0 {
		return 1
	}

	return 0
}

func printText(m *region.NamedRegionMap, sess *session.Session) {
	ids := make([]hir.NodeID, 0, len(m.Defs))
	for id := range m.Defs {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		fmt.Printf("lifetime#%d -> %s\n", id, formatRegion(m.Defs[id]))
	}

	for _, d := range sess.Diagnostics() {
		tag := "warning"
		if d.Code != "" {
			tag = d.Code
		}

		fmt.Printf("%s: %s: %s\n", tag, d.Title, d.Message)

		for _, s := range d.Suggestions {
			fmt.Printf("  help: %s\n", s.Description)
		}
	}
}

func formatRegion(r region.Region) string {
	switch r.Kind {
	case region.KindStatic:
		return "'static"
	case region.KindEarlyBound:
		return fmt.Sprintf("early-bound(index=%d, decl=%d)", r.EarlyIndex, r.DeclID)
	case region.KindLateBound:
		return fmt.Sprintf("late-bound(depth=%d, decl=%d)", r.Depth, r.DeclID)
	case region.KindLateBoundAnon:
		return fmt.Sprintf("late-bound-anon(depth=%d, index=%d)", r.Depth, r.AnonIndex)
	case region.KindFree:
		return fmt.Sprintf("free(fn=%d, body=%d, decl=%d)", r.CallSite.Fn, r.CallSite.Body, r.DeclID)
	default:
		return "unknown"
	}
}

type jsonResult struct {
	Lifetimes map[string]string `json:"lifetimes"`
	Errors    []string          `json:"errors,omitempty"`
}

func printJSON(m *region.NamedRegionMap, sess *session.Session) {
	out := jsonResult{Lifetimes: make(map[string]string, len(m.Defs))}

	for id, r := range m.Defs {
		out.Lifetimes[fmt.Sprintf("%d", id)] = formatRegion(r)
	}

	for _, d := range sess.Diagnostics() {
		out.Errors = append(out.Errors, fmt.Sprintf("%s: %s: %s", d.Code, d.Title, d.Message))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

// watchAndRerun calls run every time inputPath's containing directory
// reports a write to or creation of inputPath. Watcher errors are printed
// and watching continues; it returns only if the watcher cannot be set up
// or its channels are closed.
func watchAndRerun(inputPath string, run func() int) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := "."
	if i := lastSlash(inputPath); i >= 0 {
		dir = inputPath[:i]
	}

	if err := watcher.Add(dir); err != nil {
		return err
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if ev.Name == inputPath && (ev.Op&(fsnotify.Write|fsnotify.Create) != 0) {
				run()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}

	return -1
}
