package compiler

import (
	"hash/crc32"
	"os"

	"github.com/rime/rimecore/internal/rerr"
	"github.com/rime/rimecore/pkg/table"
)

// NeedsRebuild reports whether the compiled table at tablePath is
// missing, unopenable, or stale relative to sourcePath's current
// content checksum — generalized from the teacher's stat-plus-count
// staleness check (compare what's on disk against what's expected
// before deciding to regenerate) to a checksum comparison.
func NeedsRebuild(sourcePath, tablePath string) (bool, error) {
	raw, err := os.ReadFile(sourcePath)
	if err != nil {
		return false, rerr.New(rerr.NoRepository, "compiler.NeedsRebuild", err)
	}
	checksum := crc32.ChecksumIEEE(raw)

	if _, err := os.Stat(tablePath); os.IsNotExist(err) {
		return true, nil
	}

	t, err := table.Open(tablePath)
	if err != nil {
		return true, nil
	}
	return t.DictChecksum() != checksum, nil
}
