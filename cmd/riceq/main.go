/*
Command riceq is an interactive query shell over a compiled dictionary:
type a spelling, see the ranked candidate stream the translator would
emit for it. With -ipc it instead speaks the msgpack-framed query
protocol over stdin/stdout for editor/client integration testing.
*/
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/rime/rimecore/internal/rlog"
	"github.com/rime/rimecore/pkg/config"
	"github.com/rime/rimecore/pkg/dict"
	"github.com/rime/rimecore/pkg/prism"
	"github.com/rime/rimecore/pkg/table"
	"github.com/rime/rimecore/pkg/translator"
)

var (
	textStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	qualityStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	typeStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("110"))
)

func main() {
	tablePath := flag.String("table", "", "path to the compiled table")
	prismPath := flag.String("prism", "", "path to the compiled prism")
	configPath := flag.String("config", "rime.config.yaml", "path to the YAML config file (created with defaults if absent)")
	ipc := flag.Bool("ipc", false, "speak the msgpack query protocol over stdin/stdout instead of the interactive shell")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
	logger := rlog.New("riceq")

	if *tablePath == "" || *prismPath == "" {
		logger.Fatal("-table and -prism are both required")
	}

	p, err := prism.Open(*prismPath)
	if err != nil {
		logger.Fatalf("opening prism: %v", err)
	}
	t, err := table.Open(*tablePath)
	if err != nil {
		logger.Fatalf("opening table: %v", err)
	}
	d := dict.New(p, t)

	cfg, err := config.InitConfig(*configPath)
	if err != nil {
		logger.Fatalf("loading config: %v", err)
	}

	core := translator.New(p, d, translator.StaticConfig{Cfg: cfg})

	if *ipc {
		runIPC(core)
		return
	}
	runShell(core)
}

func runShell(core *translator.Core) {
	fmt.Println("rice query shell — type a spelling, Ctrl+D to exit")
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		candidates := core.Query(input, 0)
		if len(candidates) == 0 {
			fmt.Println("  (no candidates)")
			continue
		}
		for i, c := range candidates {
			fmt.Printf("  %2d. %s  %s  %s\n",
				i+1,
				textStyle.Render(c.Entry.Text),
				typeStyle.Render(c.Type),
				qualityStyle.Render(fmt.Sprintf("q=%.2f", c.Quality)))
		}
	}
}

func runIPC(core *translator.Core) {
	for {
		q, err := translator.DecodeQuery(os.Stdin)
		if err != nil {
			if err != io.EOF {
				fmt.Fprintf(os.Stderr, "decode error: %v\n", err)
			}
			return
		}
		candidates := core.Query(q.Input, q.SegmentStart)
		if err := translator.EncodeCandidates(os.Stdout, q.Id, candidates); err != nil {
			fmt.Fprintf(os.Stderr, "encode error: %v\n", err)
			return
		}
	}
}
