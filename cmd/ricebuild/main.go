/*
Command ricebuild compiles a plain-text dictionary source into the
prism and table binary artifacts the query engine opens at runtime.

	ricebuild -source luna_pinyin.dict.txt -table luna_pinyin.table.bin -prism luna_pinyin.prism.bin

By default the compiler skips rebuilding when the table artifact's
stored checksum already matches the source; pass -force to always
recompile.
*/
package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"

	"github.com/rime/rimecore/internal/rerr"
	"github.com/rime/rimecore/internal/rlog"
	"github.com/rime/rimecore/pkg/compiler"
)

func main() {
	sourcePath := flag.String("source", "", "path to the text dictionary source")
	tablePath := flag.String("table", "", "output path for the compiled table")
	prismPath := flag.String("prism", "", "output path for the compiled prism")
	force := flag.Bool("force", false, "recompile even if the table checksum already matches the source")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
	logger := rlog.New("ricebuild")

	if *sourcePath == "" || *tablePath == "" || *prismPath == "" {
		logger.Fatal("-source, -table, and -prism are all required")
	}

	if !*force {
		stale, err := compiler.NeedsRebuild(*sourcePath, *tablePath)
		if err != nil && !rerr.Is(err, rerr.NoRepository) {
			logger.Fatalf("checking staleness: %v", err)
		}
		if err == nil && !stale {
			logger.Info("table is up to date, nothing to do")
			return
		}
	}

	artifacts, err := compiler.Compile(*sourcePath, logger)
	if err != nil {
		logger.Fatalf("compiling %s: %v", *sourcePath, err)
	}

	if err := artifacts.Save(*tablePath, *prismPath); err != nil {
		logger.Fatalf("saving artifacts: %v", err)
	}

	logger.Infof("compiled %d syllables into %s and %s", len(artifacts.Syllabary), *tablePath, *prismPath)
	os.Exit(0)
}
